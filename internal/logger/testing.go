package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger создает логгер для тестов.
// По умолчанию уровень WARN, переменная TEST_DEBUG включает отладочный вывод.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn

	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
