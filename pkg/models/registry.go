// Package models предоставляет реестр доступных моделей и precedence
// логику выбора модели для запроса.
//
// Реестр заполняется один раз при старте из /models эндпоинта
// (с фильтрацией по regex из конфигурации) и дальше только читается.
// Thread-safe через sync.RWMutex.
package models

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

// Registry — потокобезопасное множество доступных идентификаторов моделей.
type Registry struct {
	mu        sync.RWMutex
	available map[string]struct{}
}

// NewRegistry создаёт реестр, заранее содержащий переданные дефолтные
// модели. Дефолты считаются доступными всегда: даже если /models
// недоступен при старте, сервис продолжает работать на них.
func NewRegistry(defaults ...string) *Registry {
	r := &Registry{available: make(map[string]struct{})}
	for _, name := range defaults {
		if name != "" {
			r.available[name] = struct{}{}
		}
	}
	return r
}

// Refresh запрашивает список моделей у провайдера и добавляет в реестр
// те, что проходят фильтр. Пустой filter пропускает всё.
//
// Ошибка запроса не фатальна для процесса: реестр остаётся на дефолтах,
// вызывающая сторона решает, логировать или падать.
func (r *Registry) Refresh(ctx context.Context, provider llm.Provider, filter string) error {
	ids, err := provider.ListModels(ctx)
	if err != nil {
		return err
	}

	var filterRe *regexp.Regexp
	if filter != "" {
		filterRe, err = regexp.Compile(filter)
		if err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, id := range ids {
		if filterRe != nil && !filterRe.MatchString(id) {
			continue
		}
		if _, exists := r.available[id]; !exists {
			r.available[id] = struct{}{}
			added++
		}
	}

	utils.Info("model registry refreshed", "total", len(r.available), "added", added)
	return nil
}

// Has проверяет доступность модели.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.available[name]
	return ok
}

// List возвращает отсортированный список доступных моделей.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.available))
	for name := range r.available {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve выбирает эффективную модель для запроса.
//
// Чистая precedence логика, приоритет:
//  1. Явный параметр запроса
//  2. Сохранённое предпочтение (cookie)
//  3. Сконфигурированный дефолт
//
// Разрешённое значение проверяется против множества доступных моделей;
// недоступное молча заменяется жёстким дефолтом, ошибки здесь нет
// по контракту.
func (r *Registry) Resolve(requested, stored, def string) string {
	resolved := def
	switch {
	case requested != "":
		resolved = requested
	case stored != "":
		resolved = stored
	}

	if r.Has(resolved) {
		return resolved
	}
	return def
}
