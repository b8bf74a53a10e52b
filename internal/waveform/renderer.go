// Package waveform рисует визуализацию трека: 40 столбиков, которые в живом
// режиме следуют спектру, а без данных показывают статичный горб.
//
// Все методы вызываются из цикла событий. Кадры анимации планируются через
// FrameScheduler и тоже выполняются в цикле событий.
package waveform

import (
	"math"

	"github.com/hazadus/go-wavebar/internal/loop"
)

// Геометрия визуализации
const (
	BarCount = 40
	BarGap   = 2.0

	liveFloor    = 0.1
	liveRange    = 0.9
	idleBase     = 0.15
	idleAmp      = 0.2
	mutedOpacity = 0.3
)

// FrequencySource источник спектра, например audio.Analyser
type FrequencySource interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []byte)
}

// FrameScheduler планировщик кадров анимации
type FrameScheduler interface {
	RequestFrame(fn func()) loop.FrameID
	CancelFrame(id loop.FrameID)
}

// Bar столбик кадра в логических единицах
type Bar struct {
	X, Y          float64
	Width, Height float64
	Played        bool
	Color         string  // цвет темы
	Opacity       float64 // 1 для проигранной части, 0.3 для остальной
	Fill          string  // цвет с учетом прозрачности на фоне
}

// Frame результат одной отрисовки
type Frame struct {
	Width, Height  float64
	PhysicalWidth  int
	PhysicalHeight int
	Live           bool
	Progress       float64
	Background     string
	Bars           []Bar
}

// Renderer рисует визуализацию на Surface
type Renderer struct {
	surface Surface
	themes  ThemeSource
	frames  FrameScheduler

	width, height float64
	physW, physH  int

	node FrequencySource
	data []byte

	frame    loop.FrameID
	progress float64

	last  Frame
	draws int
}

// New создает рендерер и сразу выполняет первую отрисовку
func New(surface Surface, themes ThemeSource, frames FrameScheduler) *Renderer {
	if themes == nil {
		themes = NewThemes()
	}
	r := &Renderer{
		surface: surface,
		themes:  themes,
		frames:  frames,
	}
	r.Resize()
	return r
}

// Resize перечитывает размер области и перерисовывает кадр
func (r *Renderer) Resize() {
	b := r.surface.Bounds()
	d := r.surface.Density()
	if d <= 0 {
		d = 1
	}
	r.width = math.Max(b.Width, 0)
	r.height = math.Max(b.Height, 0)
	r.physW = int(math.Round(r.width * d))
	r.physH = int(math.Round(r.height * d))
	r.draw()
}

// ConnectAnalyser подключает источник спектра и запускает анимацию.
// Повторный вызов меняет источник, но не запускает второй цикл.
func (r *Renderer) ConnectAnalyser(node FrequencySource) {
	if node == nil {
		return
	}
	r.node = node
	r.data = make([]byte, node.FrequencyBinCount())
	if r.frame != 0 {
		return
	}
	r.tick()
}

// Disconnect отключает источник, останавливает анимацию и рисует статичный кадр.
// Безопасен без подключенного источника.
func (r *Renderer) Disconnect() {
	r.node = nil
	r.data = nil
	if r.frame != 0 {
		r.frames.CancelFrame(r.frame)
		r.frame = 0
	}
	r.draw()
}

// SetProgress задает долю проигранного в диапазоне [0, 1].
// Без анимации кадр перерисовывается сразу.
func (r *Renderer) SetProgress(f float64) {
	switch {
	case math.IsNaN(f) || f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	r.progress = f
	if r.frame == 0 {
		r.draw()
	}
}

// Progress возвращает долю проигранного
func (r *Renderer) Progress() float64 {
	return r.progress
}

// Live сообщает, идет ли анимация
func (r *Renderer) Live() bool {
	return r.frame != 0
}

// LastFrame возвращает последний нарисованный кадр
func (r *Renderer) LastFrame() Frame {
	return r.last
}

// Draws возвращает число отрисовок
func (r *Renderer) Draws() int {
	return r.draws
}

func (r *Renderer) tick() {
	r.frame = 0
	if r.node == nil {
		return
	}
	r.node.ByteFrequencyData(r.data)
	r.draw()
	r.frame = r.frames.RequestFrame(r.tick)
}

// BarWidth ширина столбика для ширины области w
func BarWidth(w float64) float64 {
	bw := (w - BarGap*(BarCount-1)) / BarCount
	return math.Max(bw, 0)
}

// LiveHeight высота столбика для уровня v при высоте области h
func LiveHeight(v byte, h float64) float64 {
	return float64(v)/255*h*liveRange + h*liveFloor
}

// IdleHeight высота статичного столбика в позиции f
func IdleHeight(f, h float64) float64 {
	return h * (idleBase + idleAmp*math.Sin(f*math.Pi))
}

func (r *Renderer) draw() {
	pal := resolve(r.themes.Theme())
	accent := pal.accent.Hex()
	muted := pal.muted.Hex()
	live := r.node != nil && len(r.data) > 0

	w, h := r.width, r.height
	bw := BarWidth(w)

	frame := Frame{
		Width:          w,
		Height:         h,
		PhysicalWidth:  r.physW,
		PhysicalHeight: r.physH,
		Live:           live,
		Progress:       r.progress,
		Background:     pal.background.Hex(),
		Bars:           make([]Bar, BarCount),
	}

	for i := range frame.Bars {
		f := float64(i) / BarCount

		var bh float64
		if live {
			idx := int(math.Floor(f * float64(len(r.data))))
			bh = LiveHeight(r.data[idx], h)
		} else {
			bh = IdleHeight(f, h)
		}

		bar := Bar{
			X:      float64(i) * (bw + BarGap),
			Y:      (h - bh) / 2,
			Width:  bw,
			Height: bh,
			Played: f <= r.progress,
		}
		if bar.Played {
			bar.Color, bar.Opacity = accent, 1
			bar.Fill = accent
		} else {
			bar.Color, bar.Opacity = muted, mutedOpacity
			bar.Fill = blend(pal.background, pal.muted, mutedOpacity).Hex()
		}
		frame.Bars[i] = bar
	}

	r.last = frame
	r.draws++
}
