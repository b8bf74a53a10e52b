// Package player содержит модель панели воспроизведения для TUI
package player

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-wavebar/internal/artwork"
	"github.com/hazadus/go-wavebar/internal/player"
	"github.com/hazadus/go-wavebar/internal/utils"
	"github.com/hazadus/go-wavebar/internal/waveform"
)

// Размеры панели в ячейках терминала
const (
	Height   = 4
	ArtCols  = 8
	WaveRows = 2
)

var (
	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			PaddingLeft(2)
)

// Controller операции плеера, нужные панели
type Controller interface {
	Play(trackID int, title string, hasArt bool) error
	TogglePlay() error
	SeekAt(x float64) bool
	Resize()
	Renderer() *waveform.Renderer
	Snapshot() player.Snapshot
}

// Model представляет панель воспроизведения внизу экрана
type Model struct {
	ctrl    Controller
	surface *waveform.CellSurface
	themes  waveform.ThemeSource
	width   int
}

// NewModel создает панель. surface должен быть тем же, что передан плееру.
func NewModel(ctrl Controller, surface *waveform.CellSurface, themes waveform.ThemeSource) *Model {
	return &Model{
		ctrl:    ctrl,
		surface: surface,
		themes:  themes,
	}
}

// Layout размещает панель начиная со строки top и пересчитывает область волны
func (m *Model) Layout(top, width int) {
	m.width = width
	cols := max(width-ArtCols-1, 0)
	m.surface.Place(ArtCols+1, top+1, cols, WaveRows)
	m.ctrl.Resize()
}

// HandleMouse перематывает трек по клику на волну
func (m *Model) HandleMouse(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	if !m.surface.Contains(msg.X, msg.Y) {
		return false
	}
	return m.ctrl.SeekAt(m.surface.XAt(msg.X))
}

func (m *Model) accent() string {
	if m.themes != nil {
		if a := m.themes.Theme().Accent; a != "" {
			return a
		}
	}
	return waveform.DefaultAccent
}

// View отображает панель
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()
	if !snap.Visible {
		lines := make([]string, Height)
		lines[1] = hintStyle.Render("Выберите песню и нажмите Enter")
		return strings.Join(lines, "\n")
	}

	accent := m.accent()
	art := artwork.RenderPlaceholder(ArtCols, Height, accent)
	if snap.ArtVisible && snap.Art != "" {
		art = snap.Art
	}

	rightWidth := max(m.width-ArtCols-1, 0)
	cols, rows := m.surface.Cells()

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.header(snap, rightWidth, accent),
		m.ctrl.Renderer().View(cols, rows),
		m.footer(snap, rightWidth),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, art, " ", right)
}

// header строка с названием, исполнителем, иконкой и временем
func (m *Model) header(snap player.Snapshot, width int, accent string) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent))
	right := snap.Icon + " " + snap.Elapsed

	avail := max(width-lipgloss.Width(right)-1, 0)
	title := utils.TruncateString(snap.Title, avail)
	left := titleStyle.Render(title)
	if snap.Artist != "" && lipgloss.Width(title)+3 < avail {
		artist := utils.TruncateString(snap.Artist, avail-lipgloss.Width(title)-3)
		left += artistStyle.Render(" · " + artist)
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// footer строка состояния потока или последней ошибки
func (m *Model) footer(snap player.Snapshot, width int) string {
	if snap.Err != nil {
		return errorStyle.Render(utils.TruncateString("Ошибка: "+snap.Err.Error(), width))
	}
	return statusStyle.Render(utils.TruncateString(snap.StreamStatus, width))
}
