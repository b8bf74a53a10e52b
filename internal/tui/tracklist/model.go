// Package tracklist содержит модель списка песен для TUI
package tracklist

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-wavebar/internal/api"
	"github.com/hazadus/go-wavebar/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4)
	errorStyle        = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#ff5555"))
)

// TrackSelectedMsg отправляется при выборе песни для воспроизведения
type TrackSelectedMsg struct {
	Track api.Song
}

// TracksLoadedMsg результат загрузки списка песен
type TracksLoadedMsg struct {
	Tracks []api.Song
	Err    error
}

// Loader загружает список песен
type Loader func(ctx context.Context) ([]api.Song, error)

// LoadCmd возвращает команду загрузки списка
func LoadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		tracks, err := load(context.Background())
		return TracksLoadedMsg{Tracks: tracks, Err: err}
	}
}

// trackItem реализует интерфейс list.Item для песни
type trackItem struct {
	track api.Song
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.track.Artist, i.track.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	title := i.track.Title
	if title == "" {
		title = "Untitled"
	}
	art := " "
	if i.track.HasArt {
		art = "▣"
	}

	// Строка таблицы: ID | Исполнитель | Название | Обложка | Продолжительность
	str := fmt.Sprintf("%-5d %-20s %-40s %s %s",
		i.track.ID,
		utils.TruncateString(i.track.Artist, 20),
		utils.TruncateString(title, 40),
		art,
		utils.FormatSeconds(i.track.Duration))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель списка песен
type Model struct {
	list    list.Model
	err     error
	loading bool
}

// NewModel создает новую модель списка песен
func NewModel(tracks []api.Song) *Model {
	l := list.New(toItems(tracks), trackItemDelegate{}, 0, 0)
	l.Title = "Песни"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle
	// Подсказка по клавишам выводится общей строкой под панелью плеера
	l.SetShowHelp(false)

	return &Model{list: l}
}

func toItems(tracks []api.Song) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

// SetTracks заменяет элементы списка
func (m *Model) SetTracks(tracks []api.Song) {
	m.list.SetItems(toItems(tracks))
}

// SetLoading отмечает, что идет загрузка
func (m *Model) SetLoading(v bool) {
	m.loading = v
}

// SetSize задает размер модели. Последняя строка отведена под состояние загрузки.
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, max(height-1, 1))
}

// Filtering сообщает, вводится ли сейчас фильтр
func (m *Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Len возвращает число песен в списке
func (m *Model) Len() int {
	return len(m.list.Items())
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TracksLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.SetTracks(msg.Tracks)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			// Отправляем сообщение о выборе песни
			if item, ok := m.list.SelectedItem().(trackItem); ok {
				return m, func() tea.Msg {
					return TrackSelectedMsg{Track: item.track}
				}
			}
			return m, nil
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render("Ошибка загрузки: " + m.err.Error())
	case m.loading:
		status = helpStyle.Render("Загрузка...")
	}
	return m.list.View() + "\n" + status
}
