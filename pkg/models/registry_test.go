package models

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ilkoid/lekar-ai/pkg/llm"
)

// fakeProvider — тестовый провайдер с фиксированным списком моделей.
type fakeProvider struct {
	models []string
	err    error
}

func (f *fakeProvider) Chat(_ context.Context, _ llm.ChatRequest) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProvider) ListModels(_ context.Context) ([]string, error) {
	return f.models, f.err
}

func TestRegistry_RefreshWithFilter(t *testing.T) {
	r := NewRegistry("llama3.1")
	provider := &fakeProvider{models: []string{"llama3.1", "llava", "bge-embed", "mistral"}}

	// Фильтр отсекает embedding модели
	if err := r.Refresh(context.Background(), provider, "^(llama|llava|mistral)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"llama3.1", "llava", "mistral"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistry_RefreshFailureKeepsDefaults(t *testing.T) {
	r := NewRegistry("llama3.1", "llava")
	provider := &fakeProvider{err: errors.New("connection refused")}

	if err := r.Refresh(context.Background(), provider, ""); err == nil {
		t.Fatal("expected error from provider")
	}

	// Дефолты переживают сбой
	if !r.Has("llama3.1") || !r.Has("llava") {
		t.Error("defaults must survive a failed refresh")
	}
}

// TestRegistry_Resolve: precedence запрос → cookie → дефолт, с молчаливой
// заменой недоступной модели на жёсткий дефолт.
func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry("llama3.1")
	provider := &fakeProvider{models: []string{"mistral", "qwen2"}}
	if err := r.Refresh(context.Background(), provider, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		requested string
		stored    string
		want      string
	}{
		{name: "explicit request wins", requested: "mistral", stored: "qwen2", want: "mistral"},
		{name: "cookie wins over default", requested: "", stored: "qwen2", want: "qwen2"},
		{name: "default when nothing given", requested: "", stored: "", want: "llama3.1"},
		{name: "unknown request falls back to default", requested: "gpt-9", stored: "", want: "llama3.1"},
		{name: "unknown cookie falls back to default", requested: "", stored: "deleted-model", want: "llama3.1"},
		{name: "request shadows valid cookie even when invalid", requested: "gpt-9", stored: "mistral", want: "llama3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.requested, tt.stored, "llama3.1"); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.requested, tt.stored, got, tt.want)
			}
		})
	}
}
