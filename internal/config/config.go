// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.wavebar"

// Значения по умолчанию
const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultSampleRate     = 44100
	DefaultStreamBuffer   = 256 * 1024
	DefaultOutputBufferMS = 100
	DefaultFPS            = 30
	DefaultPageSize       = 50
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogFile        = "~/.wavebar.log"
)

// Theme цветовая тема визуализации
type Theme struct {
	Name       string `yaml:"name"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Background string `yaml:"background"`
}

// Config структура для хранения конфигурации приложения
type Config struct {
	ServerURL      string  `yaml:"server_url"`
	SampleRate     int     `yaml:"sample_rate"`
	StreamBuffer   int     `yaml:"stream_buffer"`    // Буфер чтения потока в байтах
	OutputBufferMS int     `yaml:"output_buffer_ms"` // Буфер динамика в миллисекундах
	FPS            int     `yaml:"fps"`
	SuspendOnPause *bool   `yaml:"suspend_on_pause"`
	PageSize       int     `yaml:"page_size"`
	Theme          string  `yaml:"theme"`
	Themes         []Theme `yaml:"themes"`
	LogLevel       string  `yaml:"log_level"`
	LogFormat      string  `yaml:"log_format"`
	LogFile        string  `yaml:"log_file"`
}

// DefaultThemes темы, доступные без файла конфигурации
func DefaultThemes() []Theme {
	return []Theme{
		{Name: "violet", Accent: "#6c5ce7", Muted: "#666", Background: "#1a1a1a"},
		{Name: "mint", Accent: "#00b894", Muted: "#636e72", Background: "#1e272e"},
		{Name: "sunset", Accent: "#e17055", Muted: "#b2bec3", Background: "#2d3436"},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не считается ошибкой: используются значения по умолчанию.
// Переменные окружения WAVEBAR_* имеют приоритет над файлом.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := expandHome(filePath, home)

	config := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
	}

	config.applyEnv()
	config.applyDefaults()

	// Раскрываем тильду в пути журнала
	config.LogFile = expandHome(config.LogFile, home)

	return config, nil
}

// SuspendsOnPause возвращает значение suspend_on_pause, по умолчанию true
func (c *Config) SuspendsOnPause() bool {
	return c.SuspendOnPause == nil || *c.SuspendOnPause
}

func (c *Config) applyEnv() {
	c.ServerURL = envStr("WAVEBAR_SERVER_URL", c.ServerURL)
	c.Theme = envStr("WAVEBAR_THEME", c.Theme)
	c.LogLevel = envStr("WAVEBAR_LOG_LEVEL", c.LogLevel)
	c.LogFile = envStr("WAVEBAR_LOG_FILE", c.LogFile)
	c.FPS = envInt("WAVEBAR_FPS", c.FPS)
	c.SampleRate = envInt("WAVEBAR_SAMPLE_RATE", c.SampleRate)
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.StreamBuffer <= 0 {
		c.StreamBuffer = DefaultStreamBuffer
	}
	if c.OutputBufferMS <= 0 {
		c.OutputBufferMS = DefaultOutputBufferMS
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if len(c.Themes) == 0 {
		c.Themes = DefaultThemes()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
}

func expandHome(path, home string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
