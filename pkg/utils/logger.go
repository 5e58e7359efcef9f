// Package utils предоставляет простой keyval логгер процесса.
//
// По умолчанию пишет в stderr; опционально дублирует в файл.
// Thread-safe через sync.Mutex.
package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	logMu       sync.Mutex
	logFile     *os.File
	logOut      io.Writer = os.Stderr
	debugMode   bool
	initialized bool
)

// InitLogger настраивает логгер процесса.
//
// Пустой filePath — логи идут только в stderr. Непустой — дублируются
// в указанный файл (создаётся/дописывается).
func InitLogger(filePath string, debug bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	if initialized {
		return nil
	}

	debugMode = debug

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		logOut = io.MultiWriter(os.Stderr, f)
	}

	initialized = true
	return nil
}

// Info — информационное сообщение.
func Info(msg string, keyvals ...any) {
	write("INFO", msg, keyvals...)
}

// Error — сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	write("ERROR", msg, keyvals...)
}

// Warn — предупреждение.
func Warn(msg string, keyvals ...any) {
	write("WARN", msg, keyvals...)
}

// Debug — отладочное сообщение, пишется только в debug режиме.
func Debug(msg string, keyvals ...any) {
	logMu.Lock()
	enabled := debugMode
	logMu.Unlock()
	if !enabled {
		return
	}
	write("DEBUG", msg, keyvals...)
}

// write — внутренняя функция записи.
//
// Формат: [YYYY-MM-DD HH:MM:SS] LEVEL: message key1=value1 key2=value2
func write(level, msg string, keyvals ...any) {
	logMu.Lock()
	defer logMu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
		}
	}

	fmt.Fprintln(logOut, line)
}

// Close закрывает файл логов, если он был открыт.
//
// Вызывается через defer в main().
func Close() {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
		logOut = os.Stderr
	}
	initialized = false
}
