package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopxl/beep"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/artwork"
	"github.com/hazadus/go-wavebar/internal/audio"
	"github.com/hazadus/go-wavebar/internal/config"
	"github.com/hazadus/go-wavebar/internal/logger"
	"github.com/hazadus/go-wavebar/internal/player"
	"github.com/hazadus/go-wavebar/internal/track"
	tuiPlayer "github.com/hazadus/go-wavebar/internal/tui/player"
	"github.com/hazadus/go-wavebar/internal/waveform"
)

// version задается при сборке через -ldflags "-X main.version=..."
var version = "dev"

// Application общие зависимости команд
type Application struct {
	Config  *config.Config
	Client  *api.Client
	Library *track.Manager
	Logger  *slog.Logger
}

// NewApplication создает приложение по конфигурации
func NewApplication(cfg *config.Config, l *slog.Logger) *Application {
	client := api.NewClient(cfg.ServerURL)
	return &Application{
		Config:  cfg,
		Client:  client,
		Library: track.NewManager(client, cfg.PageSize),
		Logger:  l,
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(config.DefaultPath)
	if err != nil {
		log.Printf("Ошибка загрузки конфигурации: %v", err)
		return 1
	}

	// Терминал занят интерфейсом, поэтому журнал пишется в файл
	l, closeLog, err := logger.Open(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Printf("Ошибка открытия журнала: %v", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApplication(cfg, l)
	if err := app.createRootCommand(ctx).Execute(); err != nil {
		l.Error("Команда завершилась с ошибкой", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// themes собирает темы из конфигурации и выбирает активную
func (app *Application) themes() *waveform.Themes {
	list := make([]waveform.Theme, 0, len(app.Config.Themes))
	for _, th := range app.Config.Themes {
		list = append(list, waveform.Theme(th))
	}
	themes := waveform.NewThemes(list...)
	if app.Config.Theme != "" && !themes.Select(app.Config.Theme) {
		app.Logger.Warn("Тема не найдена", "theme", app.Config.Theme, "available", themes.Names())
	}
	return themes
}

// playerOptions настраивает плеер по конфигурации
func (app *Application) playerOptions() []player.Option {
	rate := beep.SampleRate(app.Config.SampleRate)
	outputBuffer := time.Duration(app.Config.OutputBufferMS) * time.Millisecond

	return []player.Option{
		player.WithURLs(app.Client),
		player.WithSuspendOnPause(app.Config.SuspendsOnPause()),
		player.WithBufferSize(rate.N(outputBuffer)),
		player.WithArtLoader(artwork.NewLoader(nil, tuiPlayer.ArtCols, tuiPlayer.Height)),
		player.WithElementOptions(
			audio.WithOpener(audio.HTTPOpener(app.Config.StreamBuffer)),
			audio.WithSampleRate(rate),
		),
		player.WithOnError(func(err error) {
			app.Logger.Error("Ошибка воспроизведения", "error", err)
		}),
	}
}
