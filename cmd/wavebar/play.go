package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-wavebar/internal/api"
)

// errNoAudio у песни еще нет готового аудио
var errNoAudio = errors.New("у песни нет аудио")

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [songid]",
		Short: "Play a song by its ID",
		Long:  `Open the player and start the song with the given ID immediately.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			song, err := app.findSong(ctx, args[0])
			if err != nil {
				return err
			}
			return app.launchTUI(ctx, "", song)
		},
	}
}

// findSong проверяет ID и находит песню на сервере
func (app *Application) findSong(ctx context.Context, arg string) (*api.Song, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("неверный ID песни: %s", arg)
	}

	song, err := app.Library.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !song.HasAudio {
		return nil, fmt.Errorf("песня %d: %w", id, errNoAudio)
	}
	return song, nil
}
