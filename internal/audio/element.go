// Package audio содержит аудиоэлемент, анализатор спектра и аудиограф
// источник → анализатор → вывод.
package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"

	"github.com/hazadus/go-wavebar/internal/loop"
	"github.com/hazadus/go-wavebar/internal/streaming"
)

// Параметры аудиоэлемента по умолчанию
const (
	DefaultSampleRate     = beep.SampleRate(44100)
	DefaultUpdateInterval = 250 * time.Millisecond
	resampleQuality       = 4
)

// Opener открывает поток по URL
type Opener func(ctx context.Context, url string) (io.ReadSeekCloser, error)

// Decoder декодирует поток
type Decoder func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// HTTPOpener открывает поток через streaming.Reader
func HTTPOpener(bufferSize int) Opener {
	return func(ctx context.Context, url string) (io.ReadSeekCloser, error) {
		return streaming.Open(ctx, url, bufferSize)
	}
}

// Option настраивает Element
type Option func(*Element)

// WithOpener задает способ открытия потока
func WithOpener(o Opener) Option {
	return func(e *Element) { e.opener = o }
}

// WithDecoder задает декодер, по умолчанию MP3
func WithDecoder(d Decoder) Option {
	return func(e *Element) { e.decode = d }
}

// WithSampleRate задает частоту дискретизации вывода
func WithSampleRate(sr beep.SampleRate) Option {
	return func(e *Element) { e.rate = sr }
}

// WithUpdateInterval задает период уведомлений timeupdate
func WithUpdateInterval(d time.Duration) Option {
	return func(e *Element) { e.interval = d }
}

// WithLogger задает логгер
func WithLogger(l *slog.Logger) Option {
	return func(e *Element) { e.logger = l }
}

// Element единственный аудиовыход приложения: источник, транспорт и уведомления.
//
// Все методы вызываются из цикла событий. Загрузка потока, окончание трека
// и периодические уведомления приходят из других горутин через loop.Poster.
type Element struct {
	poster   loop.Poster
	logger   *slog.Logger
	opener   Opener
	decode   Decoder
	rate     beep.SampleRate
	interval time.Duration

	listeners map[EventType][]Listener

	src     string
	paused  bool
	ended   bool
	closed  bool
	gen     uint64
	loading bool
	cancel  context.CancelFunc
	waiters []func(error)

	monitorStop chan struct{}
	lastPos     time.Duration
	stuckTicks  int

	node *sourceNode
}

// NewElement создает аудиоэлемент
func NewElement(p loop.Poster, opts ...Option) *Element {
	e := &Element{
		poster:    p,
		logger:    slog.Default(),
		opener:    HTTPOpener(streaming.DefaultBufferSize),
		decode:    mp3.Decode,
		rate:      DefaultSampleRate,
		interval:  DefaultUpdateInterval,
		listeners: make(map[EventType][]Listener),
		paused:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.node = &sourceNode{}
	return e
}

// AddEventListener подписывает обработчик на уведомления
func (e *Element) AddEventListener(t EventType, l Listener) {
	e.listeners[t] = append(e.listeners[t], l)
}

// SampleRate возвращает частоту дискретизации выходного потока
func (e *Element) SampleRate() beep.SampleRate {
	return e.rate
}

// Source возвращает выходной поток элемента для подключения к аудиографу.
// Пока нет данных или элемент на паузе, поток выдает тишину и не завершается.
func (e *Element) Source() beep.Streamer {
	return e.node
}

// Src возвращает текущий источник
func (e *Element) Src() string {
	return e.src
}

// Paused возвращает true, если воспроизведение на паузе
func (e *Element) Paused() bool {
	return e.paused
}

// Ended возвращает true, если трек доигран до конца
func (e *Element) Ended() bool {
	return e.ended
}

// CurrentTime возвращает текущую позицию
func (e *Element) CurrentTime() time.Duration {
	return e.node.position()
}

// Duration возвращает длительность, если она известна
func (e *Element) Duration() (time.Duration, bool) {
	d := e.node.duration()
	return d, d > 0
}

// SetSrc привязывает элемент к новому источнику. Текущий поток закрывается,
// незавершенная загрузка отменяется.
func (e *Element) SetSrc(url string) {
	if e.closed {
		return
	}

	e.gen++
	e.abortLoad(ErrAborted)
	e.stopMonitor()
	e.node.setMedia(nil)

	e.src = url
	e.paused = true
	e.ended = false
	e.emit(Event{Type: EventEmptied})
}

// Play запускает воспроизведение. done вызывается в цикле событий ровно
// один раз с результатом запуска, nil если воспроизведение началось.
func (e *Element) Play(done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	if e.closed {
		e.resolve(done, ErrClosed)
		return
	}
	if e.src == "" {
		e.resolve(done, ErrNoSource)
		return
	}

	if e.ended {
		if err := e.node.seek(0); err != nil {
			// Поток без перемотки загружается заново
			e.node.setMedia(nil)
		}
		e.ended = false
	}

	if e.paused {
		e.paused = false
		e.emit(e.event(EventPlay))
	}

	if e.node.hasMedia() {
		e.node.setPlaying(true)
		e.startMonitor()
		e.resolve(done, nil)
		return
	}

	e.waiters = append(e.waiters, done)
	if !e.loading {
		e.startLoad()
	}
}

// Pause приостанавливает воспроизведение
func (e *Element) Pause() {
	if e.paused || e.closed {
		return
	}
	e.paused = true
	e.node.setPlaying(false)
	e.stopMonitor()
	e.emit(e.event(EventTimeUpdate))
	e.emit(e.event(EventPause))
}

// SetCurrentTime перематывает поток. Без загруженного потока ничего не делает.
func (e *Element) SetCurrentTime(d time.Duration) {
	if !e.node.hasMedia() {
		return
	}
	if err := e.node.seek(d); err != nil {
		e.logger.Warn("не удалось перемотать поток",
			slog.String("src", e.src),
			slog.Duration("position", d),
			slog.Any("error", err))
		return
	}
	if total, ok := e.Duration(); ok && d < total {
		e.ended = false
	}
	e.lastPos = e.node.position()
	e.stuckTicks = 0
	e.emit(e.event(EventTimeUpdate))
}

// Close закрывает поток и останавливает фоновые горутины
func (e *Element) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.gen++
	e.abortLoad(ErrClosed)
	e.stopMonitor()
	e.node.setMedia(nil)
	return nil
}

func (e *Element) event(t EventType) Event {
	d, _ := e.Duration()
	return Event{
		Type:        t,
		CurrentTime: e.node.position(),
		Duration:    d,
		StuckCount:  e.stuckSeconds(),
	}
}

func (e *Element) emit(ev Event) {
	for _, l := range e.listeners[ev.Type] {
		l(ev)
	}
}

// resolve вызывает done асинхронно, как обещание в цикле событий
func (e *Element) resolve(done func(error), err error) {
	e.poster.Post(func() { done(err) })
}

func (e *Element) abortLoad(err error) {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.loading = false
	waiters := e.waiters
	e.waiters = nil
	for _, w := range waiters {
		e.resolve(w, err)
	}
}

// startLoad открывает и декодирует поток в отдельной горутине
func (e *Element) startLoad() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.loading = true

	gen := e.gen
	src := e.src
	opener := e.opener
	decode := e.decode
	rate := e.rate

	e.logger.Debug("загрузка потока", slog.String("src", src))

	go func() {
		m, err := openMedia(ctx, opener, decode, src, rate)
		if m != nil {
			// Контекст живет вместе с потоком: по нему идут повторные запросы Range
			m.cancel = cancel
		}
		e.poster.Post(func() { e.finishLoad(gen, m, err) })
	}()
}

func (e *Element) finishLoad(gen uint64, m *media, err error) {
	if gen != e.gen {
		// Источник сменился, пока шла загрузка
		if m != nil {
			m.close()
		}
		return
	}
	e.loading = false
	e.cancel = nil
	waiters := e.waiters
	e.waiters = nil

	if err != nil {
		loadErr := &LoadError{URL: e.src, Err: err}
		e.logger.Error("ошибка загрузки потока",
			slog.String("src", e.src),
			slog.Any("error", err))
		wasPlaying := !e.paused
		e.paused = true
		e.emit(Event{Type: EventError, Err: loadErr})
		if wasPlaying {
			e.emit(e.event(EventPause))
		}
		for _, w := range waiters {
			e.resolve(w, loadErr)
		}
		return
	}

	e.node.setMedia(m)
	e.node.setOnEnd(func() {
		e.poster.Post(func() { e.handleEnd(gen) })
	})
	e.lastPos = 0
	e.stuckTicks = 0

	ev := e.event(EventLoadedMetadata)
	ev.Metadata = m.meta
	e.emit(ev)

	if !e.paused {
		e.node.setPlaying(true)
		e.startMonitor()
	}
	e.emit(e.event(EventTimeUpdate))

	for _, w := range waiters {
		// Пауза во время загрузки не отменяет обещание
		e.resolve(w, nil)
	}
}

// handleEnd вызывается в цикле событий, когда поток закончился
func (e *Element) handleEnd(gen uint64) {
	if gen != e.gen || e.ended {
		return
	}
	e.ended = true
	e.stopMonitor()
	e.node.setPlaying(false)
	e.emit(e.event(EventTimeUpdate))
	if !e.paused {
		e.paused = true
		e.emit(e.event(EventPause))
	}
	e.emit(e.event(EventEnded))
}

// startMonitor запускает периодические уведомления timeupdate
func (e *Element) startMonitor() {
	if e.monitorStop != nil {
		return
	}
	stop := make(chan struct{})
	e.monitorStop = stop
	gen := e.gen

	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.poster.Post(func() { e.tick(gen, stop) })
			}
		}
	}()
}

func (e *Element) stopMonitor() {
	if e.monitorStop == nil {
		return
	}
	// Не ждем завершения горутины: она может быть заблокирована в Post,
	// пока цикл событий выполняет этот вызов
	close(e.monitorStop)
	e.monitorStop = nil
}

// tick обрабатывает такт монитора в цикле событий
func (e *Element) tick(gen uint64, stop chan struct{}) {
	// Такт мог прийти от уже остановленного монитора
	if gen != e.gen || e.monitorStop != stop || e.paused {
		return
	}

	pos := e.node.position()
	if pos == e.lastPos {
		e.stuckTicks++
	} else {
		e.stuckTicks = 0
	}
	e.lastPos = pos

	e.emit(e.event(EventTimeUpdate))
}

func (e *Element) stuckSeconds() int {
	if e.interval <= 0 {
		return 0
	}
	return int(time.Duration(e.stuckTicks) * e.interval / time.Second)
}

// media загруженный поток
type media struct {
	closer  io.Closer
	decoder beep.StreamSeekCloser
	stream  beep.Streamer
	format  beep.Format
	meta    Metadata
	cancel  context.CancelFunc
	done    bool
}

func (m *media) close() {
	_ = m.decoder.Close()
	if m.closer != nil {
		_ = m.closer.Close()
	}
	if m.cancel != nil {
		m.cancel()
	}
}

func openMedia(ctx context.Context, open Opener, decode Decoder, src string, rate beep.SampleRate) (*media, error) {
	rs, err := open(ctx, src)
	if err != nil {
		return nil, err
	}

	meta, err := ReadMetadata(rs)
	if err != nil {
		// Поток без перемотки: открываем заново после чтения тегов
		rs.Close()
		if rs, err = open(ctx, src); err != nil {
			return nil, err
		}
	}

	decoder, format, err := decode(rs)
	if err != nil {
		rs.Close()
		return nil, fmt.Errorf("ошибка декодирования: %w", err)
	}

	var s beep.Streamer = decoder
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, decoder)
	}

	return &media{
		closer:  rs,
		decoder: decoder,
		stream:  s,
		format:  format,
		meta:    meta,
	}, nil
}

// sourceNode поток-источник аудиографа. Граф строится один раз, при смене
// трека меняется только подключенный к узлу поток.
type sourceNode struct {
	mu      sync.Mutex
	media   *media
	playing bool
	onEnd   func()

	// seeking выставлен, пока декодер перематывается без блокировки mu.
	// Кроме Stream, декодер трогают только вызовы из цикла событий.
	seeking atomic.Bool
}

func (n *sourceNode) Stream(samples [][2]float64) (int, bool) {
	// Перемотка может переоткрывать HTTP поток. Динамик в это время получает
	// тишину, а не ждет ответа сервера.
	if n.seeking.Load() {
		return silence(samples), true
	}
	n.mu.Lock()
	filled := 0
	var ended func()
	if n.media != nil && n.playing && !n.media.done && !n.seeking.Load() {
		var ok bool
		filled, ok = n.media.stream.Stream(samples)
		if !ok || filled < len(samples) {
			n.media.done = true
			ended = n.onEnd
		}
	}
	n.mu.Unlock()

	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	// Уведомление публикуется вне горутины динамика, чтобы не блокировать вывод
	if ended != nil {
		go ended()
	}
	return len(samples), true
}

func silence(samples [][2]float64) int {
	for i := range samples {
		samples[i] = [2]float64{}
	}
	return len(samples)
}

func (n *sourceNode) Err() error {
	return nil
}

func (n *sourceNode) setMedia(m *media) {
	n.mu.Lock()
	old := n.media
	n.media = m
	n.playing = false
	n.onEnd = nil
	n.mu.Unlock()

	if old != nil {
		old.close()
	}
}

func (n *sourceNode) setOnEnd(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onEnd = fn
}

func (n *sourceNode) setPlaying(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.playing = v
}

func (n *sourceNode) hasMedia() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.media != nil
}

func (n *sourceNode) position() time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.media == nil {
		return 0
	}
	return n.media.format.SampleRate.D(n.media.decoder.Position())
}

func (n *sourceNode) duration() time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.media == nil {
		return 0
	}
	l := n.media.decoder.Len()
	if l <= 0 {
		return 0
	}
	return n.media.format.SampleRate.D(l)
}

// seek вызывается только из цикла событий
func (n *sourceNode) seek(d time.Duration) error {
	n.mu.Lock()
	m := n.media
	if m == nil {
		n.mu.Unlock()
		return nil
	}
	// После установки флага Stream, захвативший mu, уже не читает декодер
	n.seeking.Store(true)
	n.mu.Unlock()

	p := m.format.SampleRate.N(d)
	if l := m.decoder.Len(); l > 0 && p > l {
		p = l
	}
	if p < 0 {
		p = 0
	}
	err := m.decoder.Seek(p)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.seeking.Store(false)
	if err != nil {
		return err
	}
	// Конец потока после перемотки обнаружит следующий вызов Stream
	m.done = false
	return nil
}
