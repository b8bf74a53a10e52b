// Package logger настраивает структурированное логирование через log/slog
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvLevel переменная окружения с уровнем логирования
const EnvLevel = "WAVEBAR_LOG_LEVEL"

// Config параметры логгера
type Config struct {
	Level  slog.Level
	Format string // "text" или "json"
	File   string // пустая строка означает stderr
}

// NewLogger создает логгер, пишущий в w
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Open создает логгер по конфигурации. Интерфейс занимает терминал,
// поэтому при заданном файле журнал пишется в него.
// Возвращенную функцию нужно вызвать при завершении программы.
func Open(cfg Config) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		return NewLogger(cfg, os.Stderr), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("не удалось создать каталог журнала: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось открыть файл журнала: %w", err)
	}
	return NewLogger(cfg, f), f.Close, nil
}

// ParseLevel разбирает название уровня. Неизвестное значение дает INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultConfig возвращает конфигурацию по умолчанию.
// Уровень берется из WAVEBAR_LOG_LEVEL: DEBUG, INFO, WARN, WARNING, ERROR.
func DefaultConfig() Config {
	return Config{
		Level:  ParseLevel(os.Getenv(EnvLevel)),
		Format: "text",
	}
}
