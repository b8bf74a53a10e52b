// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/loop"
	"github.com/hazadus/go-wavebar/internal/player"
	"github.com/hazadus/go-wavebar/internal/tui/app"
	"github.com/hazadus/go-wavebar/internal/tui/tracklist"
	"github.com/hazadus/go-wavebar/internal/waveform"
)

// Config параметры TUI приложения
type Config struct {
	FPS           int
	Themes        *waveform.Themes
	Load          tracklist.Loader
	Reload        tracklist.Loader
	Start         *api.Song
	PlayerOptions []player.Option
	Logger        *slog.Logger
}

// App представляет основное TUI приложение
type App struct {
	cfg Config
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(cfg Config) *App {
	if cfg.Themes == nil {
		cfg.Themes = waveform.NewThemes()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &App{cfg: cfg}
}

// Run запускает TUI приложение и блокируется до выхода
func (tuiApp *App) Run() error {
	events := loop.NewProgram()
	defer events.Close()

	frames := loop.NewFrames(events, tuiApp.cfg.FPS)
	defer frames.Close()

	surface := waveform.NewCellSurface(0, 0, 0, 0)
	opts := append([]player.Option{
		player.WithThemes(tuiApp.cfg.Themes),
		player.WithLogger(tuiApp.cfg.Logger),
	}, tuiApp.cfg.PlayerOptions...)

	p, err := player.Init(player.Host{
		Surface: surface,
		Poster:  events,
		Frames:  frames,
	}, opts...)
	if err != nil {
		return err
	}

	// Создаем модель для Bubble Tea
	model := app.NewMainModel(app.Options{
		Player:  p,
		Surface: surface,
		Themes:  tuiApp.cfg.Themes,
		Load:    tuiApp.cfg.Load,
		Reload:  tuiApp.cfg.Reload,
		Start:   tuiApp.cfg.Start,
		Logger:  tuiApp.cfg.Logger,
	})

	// Создаем программу Bubble Tea
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	events.Attach(program)

	// Запускаем программу
	_, err = program.Run()

	// Закрываем плеер после завершения программы
	if closeErr := p.Close(); closeErr != nil {
		tuiApp.cfg.Logger.Warn("Ошибка при закрытии плеера", "error", closeErr)
	}

	return err
}
