// Package app содержит основную логику TUI приложения
package app

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/loop"
	tuiPlayer "github.com/hazadus/go-wavebar/internal/tui/player"
	"github.com/hazadus/go-wavebar/internal/tui/tracklist"
	"github.com/hazadus/go-wavebar/internal/waveform"
)

// Themes переключаемые темы оформления
type Themes interface {
	waveform.ThemeSource
	Next() waveform.Theme
}

// Options зависимости главной модели
type Options struct {
	Player  tuiPlayer.Controller
	Surface *waveform.CellSurface
	Themes  Themes
	Load    tracklist.Loader
	Reload  tracklist.Loader // повторная загрузка по "r", по умолчанию Load
	Start   *api.Song        // трек, который нужно запустить сразу после старта
	Logger  *slog.Logger
}

// MainModel представляет главную модель TUI
type MainModel struct {
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	player         tuiPlayer.Controller
	themes         Themes
	load           tracklist.Loader
	reload         tracklist.Loader
	start          *api.Song
	keys           keyMap
	help           help.Model
	logger         *slog.Logger
	width          int
	height         int
}

// NewMainModel создает новую главную модель
func NewMainModel(opts Options) *MainModel {
	keys := newKeyMap()
	reload := opts.Reload
	if reload == nil {
		reload = opts.Load
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MainModel{
		tracklistModel: tracklist.NewModel(nil),
		playerModel:    tuiPlayer.NewModel(opts.Player, opts.Surface, opts.Themes),
		player:         opts.Player,
		themes:         opts.Themes,
		load:           opts.Load,
		reload:         reload,
		start:          opts.Start,
		keys:           keys,
		help:           help.New(),
		logger:         logger,
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.load != nil {
		m.tracklistModel.SetLoading(true)
		cmds = append(cmds, tracklist.LoadCmd(m.load))
	}
	if m.start != nil {
		track := *m.start
		cmds = append(cmds, func() tea.Msg {
			return tracklist.TrackSelectedMsg{Track: track}
		})
	}
	return tea.Batch(cmds...)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Задачи из асинхронных источников выполняются в цикле событий
	if loop.Run(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		m.playerModel.HandleMouse(msg)
		return m, nil

	case tracklist.TrackSelectedMsg:
		if err := m.player.Play(msg.Track.ID, msg.Track.Title, msg.Track.HasArt); err != nil {
			m.logger.Warn("Не удалось запустить воспроизведение", "track", msg.Track.ID, "error", err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.tracklistModel.Filtering() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if err := m.player.TogglePlay(); err != nil {
				m.logger.Warn("Не удалось переключить воспроизведение", "error", err)
			}
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			th := m.themes.Next()
			m.logger.Debug("Тема изменена", "theme", th.Name)
			// Перерисовка с новыми цветами, даже если анимация остановлена
			m.player.Resize()
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if m.reload != nil {
				m.tracklistModel.SetLoading(true)
				return m, tracklist.LoadCmd(m.reload)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, cmd
}

// resize делит экран между списком, панелью плеера и строкой подсказки
func (m *MainModel) resize(width, height int) {
	m.width, m.height = width, height
	listHeight := max(height-tuiPlayer.Height-1, 1)
	m.tracklistModel.SetSize(width, listHeight)
	m.playerModel.Layout(listHeight, width)
	m.help.Width = width
}

// View отображает модель
func (m *MainModel) View() string {
	return m.tracklistModel.View() + "\n" +
		m.playerModel.View() + "\n" +
		m.help.View(m.keys)
}
