// Package player содержит единственный на процесс плеер: аудиоэлемент,
// аудиограф и визуализацию, связанные в одну сессию воспроизведения.
//
// Все методы Player вызываются из цикла событий.
package player

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hazadus/go-wavebar/internal/audio"
	"github.com/hazadus/go-wavebar/internal/loop"
	"github.com/hazadus/go-wavebar/internal/streaming"
	"github.com/hazadus/go-wavebar/internal/utils"
	"github.com/hazadus/go-wavebar/internal/waveform"
)

// Значки кнопки воспроизведения
const (
	IconPlay  = "▶"
	IconPause = "❚❚"
)

// UntitledTitle заголовок трека без названия
const UntitledTitle = "Untitled"

var (
	// ErrAlreadyInitialized плеер уже создан
	ErrAlreadyInitialized = errors.New("плеер уже инициализирован")

	// ErrGraphBuilding аудиограф строится, повторный вход отклонен
	ErrGraphBuilding = errors.New("аудиограф уже строится")

	// ErrNoHost не задана область визуализации или цикл событий
	ErrNoHost = errors.New("не задано окружение плеера")
)

// State состояние воспроизведения
type State int

// Состояния воспроизведения
const (
	StateIdle State = iota
	StatePaused
	StatePlaying
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "idle"
	}
}

type graphState int

const (
	graphUnbuilt graphState = iota
	graphBuilding
	graphBuilt
)

// URLResolver адреса ресурсов трека на сервере
type URLResolver interface {
	AudioURL(id int) string
	ArtURL(id int) string
}

// Host окружение плеера
type Host struct {
	Surface waveform.Surface
	Poster  loop.Poster
	Frames  waveform.FrameScheduler // по умолчанию loop.Frames с частотой loop.DefaultFPS
}

// Snapshot видимое состояние сессии воспроизведения
type Snapshot struct {
	TrackID      int
	HasTrack     bool
	Title        string
	Artist       string
	ArtVisible   bool
	Art          string // пустая строка, пока обложка не загружена
	Visible      bool
	State        State
	Icon         string
	Elapsed      string
	StreamStatus string
	Err          error
}

// Player сессия воспроизведения
type Player struct {
	logger         *slog.Logger
	urls           URLResolver
	out            audio.Output
	el             *audio.Element
	elementOpts    []audio.Option
	wave           *waveform.Renderer
	surface        waveform.Surface
	poster         loop.Poster
	themes         waveform.ThemeSource
	loadArt        func(ctx context.Context, url string) (string, error)
	onError        func(error)
	suspendOnPause bool
	bufferSize     int

	graphState graphState
	graph      *audio.Graph

	trackID    int
	hasTrack   bool
	title      string
	artist     string
	artVisible bool
	art        string
	artCancel  context.CancelFunc
	visible    bool

	state        State
	icon         string
	elapsed      string
	streamStatus string
	lastErr      error
}

// Option настраивает Player
type Option func(*Player)

// WithURLs задает адреса ресурсов, обычно api.Client
func WithURLs(u URLResolver) Option {
	return func(p *Player) { p.urls = u }
}

// WithOutput задает устройство вывода, по умолчанию динамик beep
func WithOutput(o audio.Output) Option {
	return func(p *Player) { p.out = o }
}

// WithElementOptions передает параметры аудиоэлементу
func WithElementOptions(opts ...audio.Option) Option {
	return func(p *Player) { p.elementOpts = append(p.elementOpts, opts...) }
}

// WithThemes задает источник цветовой темы визуализации
func WithThemes(t waveform.ThemeSource) Option {
	return func(p *Player) { p.themes = t }
}

// WithArtLoader задает загрузчик обложек
func WithArtLoader(fn func(ctx context.Context, url string) (string, error)) Option {
	return func(p *Player) { p.loadArt = fn }
}

// WithOnError задает обработчик ошибок асинхронного запуска
func WithOnError(fn func(error)) Option {
	return func(p *Player) { p.onError = fn }
}

// WithSuspendOnPause приостанавливает устройство вывода на паузе
func WithSuspendOnPause(v bool) Option {
	return func(p *Player) { p.suspendOnPause = v }
}

// WithBufferSize задает размер буфера вывода в отсчетах
func WithBufferSize(n int) Option {
	return func(p *Player) { p.bufferSize = n }
}

// WithLogger задает логгер
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

var (
	mu       sync.Mutex
	instance *Player
)

// Init создает единственный плеер процесса. Повторный вызов возвращает
// уже созданный плеер и ErrAlreadyInitialized.
func Init(host Host, opts ...Option) (*Player, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, ErrAlreadyInitialized
	}
	p, err := newPlayer(host, opts...)
	if err != nil {
		return nil, err
	}
	instance = p
	return p, nil
}

// Get возвращает плеер или nil до вызова Init
func Get() *Player {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

func newPlayer(host Host, opts ...Option) (*Player, error) {
	if host.Surface == nil || host.Poster == nil {
		return nil, ErrNoHost
	}

	p := &Player{
		logger:         slog.Default(),
		surface:        host.Surface,
		poster:         host.Poster,
		suspendOnPause: true,
		state:          StateIdle,
		icon:           IconPlay,
		elapsed:        utils.FormatElapsed(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.out == nil {
		p.out = audio.NewSpeakerOutput()
	}

	frames := host.Frames
	if frames == nil {
		frames = loop.NewFrames(host.Poster, loop.DefaultFPS)
	}

	elOpts := append([]audio.Option{audio.WithLogger(p.logger)}, p.elementOpts...)
	p.el = audio.NewElement(host.Poster, elOpts...)
	p.wave = waveform.New(host.Surface, p.themes, frames)
	p.bindEvents()
	return p, nil
}

func (p *Player) bindEvents() {
	p.el.AddEventListener(audio.EventPlay, p.onPlay)
	p.el.AddEventListener(audio.EventPause, p.onPause)
	p.el.AddEventListener(audio.EventEnded, p.onEnded)
	p.el.AddEventListener(audio.EventTimeUpdate, p.onTimeUpdate)
	p.el.AddEventListener(audio.EventLoadedMetadata, p.onLoadedMetadata)
	p.el.AddEventListener(audio.EventEmptied, p.onEmptied)
	p.el.AddEventListener(audio.EventError, p.onElementError)
}

// Play воспроизводит трек. Повторный вызов для играющего трека ничего не делает.
// Привязка трека, заголовок и обложка обновляются до запуска и не
// откатываются при ошибке. Ошибки загрузки потока приходят в OnError.
func (p *Player) Play(trackID int, title string, hasArt bool) error {
	if p.hasTrack && p.trackID == trackID && !p.el.Paused() {
		return nil
	}

	p.visible = true

	if !p.hasTrack || p.trackID != trackID {
		p.trackID = trackID
		p.hasTrack = true
		p.el.SetSrc(p.audioURL(trackID))
		if title == "" {
			title = UntitledTitle
		}
		p.title = title
		p.artist = ""
		p.setArtwork(trackID, hasArt)

		p.logger.Info("выбран трек",
			slog.Int("track_id", trackID),
			slog.String("title", title))
	}

	return p.start()
}

// TogglePlay переключает паузу. Без выбранного трека ничего не делает.
func (p *Player) TogglePlay() error {
	if p.el.Src() == "" {
		return nil
	}
	if p.el.Paused() {
		return p.start()
	}
	p.el.Pause()
	return nil
}

// SeekAt перематывает по клику в логической координате x области визуализации.
// Возвращает false, если длительность неизвестна или клик вне области.
func (p *Player) SeekAt(x float64) bool {
	d, ok := p.el.Duration()
	if !ok {
		return false
	}
	b := p.surface.Bounds()
	if b.Width <= 0 {
		return false
	}
	frac := (x - b.Left) / b.Width
	if frac < 0 || frac > 1 {
		return false
	}
	p.el.SetCurrentTime(time.Duration(frac * float64(d)))
	return true
}

// Resize перечитывает размер области визуализации
func (p *Player) Resize() {
	p.wave.Resize()
}

// Renderer возвращает визуализацию
func (p *Player) Renderer() *waveform.Renderer {
	return p.wave
}

// Element возвращает аудиоэлемент
func (p *Player) Element() *audio.Element {
	return p.el
}

// GraphBuilt сообщает, построен ли аудиограф
func (p *Player) GraphBuilt() bool {
	return p.graphState == graphBuilt
}

// Snapshot возвращает видимое состояние сессии
func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		TrackID:      p.trackID,
		HasTrack:     p.hasTrack,
		Title:        p.title,
		Artist:       p.artist,
		ArtVisible:   p.artVisible,
		Art:          p.art,
		Visible:      p.visible,
		State:        p.state,
		Icon:         p.icon,
		Elapsed:      p.elapsed,
		StreamStatus: p.streamStatus,
		Err:          p.lastErr,
	}
}

// Close останавливает воспроизведение и фоновые загрузки
func (p *Player) Close() error {
	if p.artCancel != nil {
		p.artCancel()
		p.artCancel = nil
	}
	p.wave.Disconnect()
	return p.el.Close()
}

func (p *Player) audioURL(id int) string {
	if p.urls == nil {
		return ""
	}
	return p.urls.AudioURL(id)
}

// start строит аудиограф при необходимости, возобновляет вывод и запускает элемент
func (p *Player) start() error {
	if err := p.ensureGraph(); err != nil {
		p.lastErr = err
		return err
	}

	if p.graph.Output.State() == audio.OutputSuspended {
		if err := p.graph.Output.Resume(); err != nil {
			err = &audio.GraphError{Op: "resume", Err: err}
			p.lastErr = err
			return err
		}
	}

	p.lastErr = nil
	p.el.Play(p.playDone)
	return nil
}

func (p *Player) ensureGraph() error {
	switch p.graphState {
	case graphBuilt:
		return nil
	case graphBuilding:
		return ErrGraphBuilding
	}

	p.graphState = graphBuilding
	g, err := audio.BuildGraph(p.out, p.el, p.bufferSize)
	if err != nil {
		p.graphState = graphUnbuilt
		p.logger.Error("не удалось построить аудиограф", slog.Any("error", err))
		return err
	}
	p.graph = g
	p.graphState = graphBuilt
	p.logger.Debug("аудиограф построен",
		slog.Int("sample_rate", int(p.el.SampleRate())),
		slog.Int("fft_size", g.Analyser.FFTSize()))
	return nil
}

// playDone получает результат запуска элемента
func (p *Player) playDone(err error) {
	var loadErr *audio.LoadError
	switch {
	case err == nil:
	case errors.Is(err, audio.ErrAborted):
		// Трек сменился до окончания загрузки
	case errors.As(err, &loadErr):
		// Уже доставлена через уведомление error
	default:
		p.reportError(err)
	}
}

func (p *Player) setArtwork(id int, hasArt bool) {
	if p.artCancel != nil {
		p.artCancel()
		p.artCancel = nil
	}
	p.artVisible = hasArt
	p.art = ""
	if !hasArt || p.loadArt == nil || p.urls == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.artCancel = cancel
	url := p.urls.ArtURL(id)
	load := p.loadArt

	go func() {
		art, err := load(ctx, url)
		p.poster.Post(func() {
			if ctx.Err() != nil || p.trackID != id {
				return
			}
			cancel()
			p.artCancel = nil
			if err != nil {
				p.logger.Warn("не удалось загрузить обложку",
					slog.Int("track_id", id),
					slog.Any("error", err))
				return
			}
			p.art = art
		})
	}()
}

func (p *Player) reportError(err error) {
	p.lastErr = err
	if p.onError != nil {
		p.onError(err)
	}
}

func (p *Player) onPlay(audio.Event) {
	p.state = StatePlaying
	p.icon = IconPause
	if p.graph != nil {
		p.wave.ConnectAnalyser(p.graph.Analyser)
	}
}

func (p *Player) onPause(audio.Event) {
	if !p.el.Ended() {
		p.state = StatePaused
	}
	p.icon = IconPlay
	p.streamStatus = ""
	p.wave.Disconnect()

	if p.suspendOnPause && p.graph != nil {
		if err := p.graph.Output.Suspend(); err != nil {
			p.logger.Warn("не удалось приостановить вывод", slog.Any("error", err))
		}
	}
}

func (p *Player) onEnded(audio.Event) {
	p.state = StateEnded
	p.icon = IconPlay
}

func (p *Player) onTimeUpdate(ev audio.Event) {
	if ev.Duration <= 0 {
		return
	}
	p.wave.SetProgress(float64(ev.CurrentTime) / float64(ev.Duration))
	p.elapsed = utils.FormatElapsed(ev.CurrentTime)
	if !p.el.Paused() {
		p.streamStatus = streaming.GetStreamStatus(ev.StuckCount)
	}
}

func (p *Player) onLoadedMetadata(ev audio.Event) {
	p.artist = ev.Metadata.Artist
}

func (p *Player) onEmptied(audio.Event) {
	p.state = StatePaused
	p.icon = IconPlay
	p.elapsed = utils.FormatElapsed(0)
	p.streamStatus = ""
	p.wave.SetProgress(0)
}

func (p *Player) onElementError(ev audio.Event) {
	p.logger.Warn("ошибка воспроизведения",
		slog.Int("track_id", p.trackID),
		slog.Any("error", ev.Err))
	p.reportError(ev.Err)
}
