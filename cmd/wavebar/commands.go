package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами.
// Без подкоманды запускается TUI.
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var query string

	rootCmd := &cobra.Command{
		Use:   "wavebar",
		Short: "Terminal player for the song library",
		Long:  `Browse the song library and play tracks with a live waveform.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx, query, nil)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "filter songs by title or artist")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand(ctx))
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createVersionCommand())

	return rootCmd
}
