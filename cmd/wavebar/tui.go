package main

import (
	"context"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/tui"
)

func (app *Application) launchTUI(ctx context.Context, query string, start *api.Song) error {
	// Создаем экземпляр TUI приложения
	tuiApp := tui.NewApp(tui.Config{
		FPS:    app.Config.FPS,
		Themes: app.themes(),
		// Загрузка идет в контексте команды и прерывается сигналом завершения
		Load: func(context.Context) ([]api.Song, error) {
			return app.Library.Load(ctx, query)
		},
		Reload: func(context.Context) ([]api.Song, error) {
			return app.Library.Reload(ctx)
		},
		Start:         start,
		PlayerOptions: app.playerOptions(),
		Logger:        app.Logger,
	})

	// Запускаем TUI
	return tuiApp.Run()
}
