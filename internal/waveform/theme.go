package waveform

import "github.com/lucasb-eyer/go-colorful"

// Цвета по умолчанию
const (
	DefaultAccent     = "#6c5ce7"
	DefaultMuted      = "#666666"
	DefaultBackground = "#1a1a1a"
)

// Theme цветовая тема визуализации
type Theme struct {
	Name       string `yaml:"name"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Background string `yaml:"background"`
}

// ThemeSource источник активной темы. Тема читается при каждой отрисовке.
type ThemeSource interface {
	Theme() Theme
}

// Themes набор тем с переключением по кругу
type Themes struct {
	list    []Theme
	current int
}

// NewThemes создает набор тем. Пустой набор содержит одну тему по умолчанию.
func NewThemes(themes ...Theme) *Themes {
	if len(themes) == 0 {
		themes = []Theme{{Name: "default"}}
	}
	return &Themes{list: themes}
}

// Theme реализует ThemeSource
func (t *Themes) Theme() Theme {
	return t.list[t.current]
}

// Next переключает на следующую тему и возвращает ее
func (t *Themes) Next() Theme {
	t.current = (t.current + 1) % len(t.list)
	return t.list[t.current]
}

// Select выбирает тему по имени. Возвращает false, если темы нет.
func (t *Themes) Select(name string) bool {
	for i, th := range t.list {
		if th.Name == name {
			t.current = i
			return true
		}
	}
	return false
}

// Names возвращает имена тем в порядке переключения
func (t *Themes) Names() []string {
	names := make([]string, len(t.list))
	for i, th := range t.list {
		names[i] = th.Name
	}
	return names
}

// palette разобранные цвета темы
type palette struct {
	accent     colorful.Color
	muted      colorful.Color
	background colorful.Color
}

func resolve(th Theme) palette {
	return palette{
		accent:     parseColor(th.Accent, DefaultAccent),
		muted:      parseColor(th.Muted, DefaultMuted),
		background: parseColor(th.Background, DefaultBackground),
	}
}

// parseColor разбирает цвет, включая короткую запись #rgb
func parseColor(s, fallback string) colorful.Color {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// blend накладывает цвет с прозрачностью на фон
func blend(bg, c colorful.Color, opacity float64) colorful.Color {
	return bg.BlendRgb(c, opacity).Clamped()
}
