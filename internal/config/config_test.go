package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// clearEnv сбрасывает переменные окружения, влияющие на конфигурацию
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WAVEBAR_SERVER_URL", "WAVEBAR_THEME", "WAVEBAR_LOG_LEVEL",
		"WAVEBAR_LOG_FILE", "WAVEBAR_FPS", "WAVEBAR_SAMPLE_RATE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)

	// Создаем временный файл конфигурации
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	suspend := false
	testConfig := Config{
		ServerURL:      "http://music.local:8000",
		SampleRate:     48000,
		FPS:            60,
		SuspendOnPause: &suspend,
		Theme:          "night",
		Themes: []Theme{
			{Name: "night", Accent: "#ff00ff", Muted: "#333"},
		},
		LogLevel: "debug",
		LogFile:  filepath.Join(tempDir, "wavebar.log"),
	}

	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if loaded.ServerURL != testConfig.ServerURL {
		t.Errorf("Ожидался ServerURL: %s, получено: %s", testConfig.ServerURL, loaded.ServerURL)
	}
	if loaded.SampleRate != 48000 {
		t.Errorf("Ожидался SampleRate: 48000, получено: %d", loaded.SampleRate)
	}
	if loaded.FPS != 60 {
		t.Errorf("Ожидался FPS: 60, получено: %d", loaded.FPS)
	}
	if loaded.SuspendsOnPause() {
		t.Error("suspend_on_pause: false должен отключать приостановку вывода")
	}
	if len(loaded.Themes) != 1 || loaded.Themes[0].Accent != "#ff00ff" {
		t.Errorf("Неожиданные темы: %+v", loaded.Themes)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("Ожидался LogLevel: debug, получено: %s", loaded.LogLevel)
	}
	// Незаданные поля получают значения по умолчанию
	if loaded.StreamBuffer != DefaultStreamBuffer {
		t.Errorf("Ожидался StreamBuffer по умолчанию, получено: %d", loaded.StreamBuffer)
	}
	if loaded.PageSize != DefaultPageSize {
		t.Errorf("Ожидался PageSize по умолчанию, получено: %d", loaded.PageSize)
	}
}

func TestLoadConfigNonExistentFile(t *testing.T) {
	clearEnv(t)

	// Отсутствующий файл дает конфигурацию по умолчанию
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("Ожидался ServerURL по умолчанию, получено: %s", cfg.ServerURL)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("Ожидался SampleRate по умолчанию, получено: %d", cfg.SampleRate)
	}
	if cfg.OutputBufferMS != DefaultOutputBufferMS {
		t.Errorf("Ожидался OutputBufferMS по умолчанию, получено: %d", cfg.OutputBufferMS)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("Ожидался FPS по умолчанию, получено: %d", cfg.FPS)
	}
	if !cfg.SuspendsOnPause() {
		t.Error("По умолчанию вывод приостанавливается на паузе")
	}
	if len(cfg.Themes) != len(DefaultThemes()) {
		t.Errorf("Ожидались темы по умолчанию, получено: %d", len(cfg.Themes))
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("Ожидался LogFormat по умолчанию, получено: %s", cfg.LogFormat)
	}
}

func TestEnvVarOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("WAVEBAR_SERVER_URL", "http://env.local")
	t.Setenv("WAVEBAR_FPS", "24")
	t.Setenv("WAVEBAR_THEME", "mint")
	t.Setenv("WAVEBAR_SAMPLE_RATE", "not-a-number")

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	content := "server_url: http://file.local\nfps: 60\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if cfg.ServerURL != "http://env.local" {
		t.Errorf("Переменная окружения должна иметь приоритет, получено: %s", cfg.ServerURL)
	}
	if cfg.FPS != 24 {
		t.Errorf("Ожидался FPS: 24, получено: %d", cfg.FPS)
	}
	if cfg.Theme != "mint" {
		t.Errorf("Ожидалась тема mint, получено: %s", cfg.Theme)
	}
	// Некорректное число игнорируется
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("Ожидался SampleRate по умолчанию, получено: %d", cfg.SampleRate)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	clearEnv(t)

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid_config.yaml")

	invalidYAML := `server_url: "http://localhost"
themes: [unclosed array
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Ожидалась ошибка при загрузке некорректного YAML")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestLoadConfigWithTilde(t *testing.T) {
	clearEnv(t)

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_file: ~/logs/wavebar.log\n"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "logs", "wavebar.log")
	if cfg.LogFile != expected {
		t.Errorf("Ожидался LogFile с раскрытой тильдой: %s, получено: %s", expected, cfg.LogFile)
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"~", "/home/u"},
		{"~/x", "/home/u/x"},
		{"/tmp/~x", "/tmp/~x"},
		{"~other/x", "~other/x"},
	}
	for _, test := range tests {
		if got := expandHome(test.path, "/home/u"); got != test.expected {
			t.Errorf("expandHome(%s) = %s; expected %s", test.path, got, test.expected)
		}
	}
}
