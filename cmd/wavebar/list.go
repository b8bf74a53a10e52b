package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-wavebar/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand(ctx context.Context) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List songs with audio from the server",
		Long:  `Display a list of songs that have rendered audio.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.listTracks(ctx, cmd.OutOrStdout(), query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter songs by title or artist")
	return cmd
}

func (app *Application) listTracks(ctx context.Context, w io.Writer, query string) error {
	tracks, err := app.Library.Load(ctx, query)
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		fmt.Fprintln(w, "📚 Песен с аудио не найдено.")
		return nil
	}

	fmt.Fprintf(w, "📚 Найдено песен: %d\n\n", len(tracks))

	// Выводим заголовок таблицы
	fmt.Fprintf(w, "%-5s %-30s %-30s %-8s %-12s\n",
		"ID", "Исполнитель", "Название", "BPM", "Длительность")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	// Выводим каждую песню
	var total time.Duration
	for _, t := range tracks {
		total += t.Length()
		title := t.Title
		if title == "" {
			title = "Untitled"
		}
		bpm := "-"
		if t.BPM != nil {
			bpm = fmt.Sprintf("%d", *t.BPM)
		}

		fmt.Fprintf(w, "%-5d %-30s %-30s %-8s %-12s\n",
			t.ID,
			utils.TruncateString(t.Artist, 28),
			utils.TruncateString(title, 28),
			bpm,
			utils.FormatSeconds(t.Duration))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Общая длительность: %s\n", utils.FormatDuration(total))
	fmt.Fprintln(w, "💡 Используйте 'wavebar play [ID]' для воспроизведения песни")
	return nil
}
