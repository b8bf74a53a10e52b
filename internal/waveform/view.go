package waveform

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// levels символы блоков снизу вверх с шагом 1/8 ячейки
var levels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// View растеризует последний кадр в cols×rows ячеек терминала
func (r *Renderer) View(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	f := r.last
	cellW := f.Width / float64(cols)
	cellH := f.Height / float64(rows)
	step := BarWidth(f.Width) + BarGap

	styles := make(map[string]lipgloss.Style)
	style := func(fill string, inverse bool) lipgloss.Style {
		key := fill
		if inverse {
			key += "/inv"
		}
		if s, ok := styles[key]; ok {
			return s
		}
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(fill))
		if inverse {
			s = lipgloss.NewStyle().
				Foreground(lipgloss.Color(f.Background)).
				Background(lipgloss.Color(fill))
		}
		styles[key] = s
		return s
	}

	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		top := float64(row) * cellH
		bottom := top + cellH

		var sb strings.Builder
		for col := 0; col < cols; col++ {
			bar, ok := barAt(f, (float64(col)+0.5)*cellW, step)
			if !ok || cellH <= 0 {
				sb.WriteString(" ")
				continue
			}

			y0, y1 := bar.Y, bar.Y+bar.Height
			lo, hi := math.Max(y0, top), math.Min(y1, bottom)
			level := 0
			if hi > lo {
				level = int(math.Round((hi - lo) / cellH * 8))
			}

			switch {
			case level <= 0:
				sb.WriteString(" ")
			case level >= 8:
				sb.WriteString(style(bar.Fill, false).Render(levels[8]))
			case y1 >= bottom || y0 > top:
				sb.WriteString(style(bar.Fill, false).Render(levels[level]))
			default:
				// Столбик занимает верх ячейки: пустой низ рисуется цветом фона
				sb.WriteString(style(bar.Fill, true).Render(levels[8-level]))
			}
		}
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// barAt находит столбик, которому принадлежит логическая координата x
func barAt(f Frame, x, step float64) (Bar, bool) {
	if step <= 0 || len(f.Bars) == 0 {
		return Bar{}, false
	}
	i := int(math.Floor(x / step))
	if i < 0 || i >= len(f.Bars) {
		return Bar{}, false
	}
	bar := f.Bars[i]
	if x-bar.X >= bar.Width {
		return Bar{}, false
	}
	return bar, true
}
