// Package mock содержит тестовые реализации устройства вывода, открытия и
// декодирования потока. Звук не воспроизводится, данные генерируются в памяти.
package mock

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep"

	"github.com/hazadus/go-wavebar/internal/audio"
)

// ErrMock ошибка, которую возвращают сконфигурированные на сбой заглушки
var ErrMock = errors.New("mock: сбой")

// Output заглушка устройства вывода. Поток, переданный в Play, можно прокачать
// вручную через Pull, имитируя горутину динамика.
type Output struct {
	mu sync.Mutex

	state   audio.OutputState
	streams []beep.Streamer

	initCalls    int
	resumeCalls  int
	suspendCalls int

	failInit    bool
	failResume  bool
	failSuspend bool
}

// NewOutput создает заглушку устройства вывода
func NewOutput() *Output {
	return &Output{}
}

// SetFailInit настраивает сбой инициализации
func (o *Output) SetFailInit(fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failInit = fail
}

// SetFailResume настраивает сбой возобновления
func (o *Output) SetFailResume(fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failResume = fail
}

// SetFailSuspend настраивает сбой приостановки
func (o *Output) SetFailSuspend(fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failSuspend = fail
}

// SetState принудительно задает состояние устройства
func (o *Output) SetState(s audio.OutputState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = s
}

// Init реализует audio.Output
func (o *Output) Init(rate beep.SampleRate, bufferSize int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.initCalls++
	if o.failInit {
		return ErrMock
	}
	o.state = audio.OutputRunning
	return nil
}

// Play реализует audio.Output
func (o *Output) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streams = append(o.streams, s)
}

// Suspend реализует audio.Output
func (o *Output) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.suspendCalls++
	if o.failSuspend {
		return ErrMock
	}
	if o.state == audio.OutputRunning {
		o.state = audio.OutputSuspended
	}
	return nil
}

// Resume реализует audio.Output
func (o *Output) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resumeCalls++
	if o.failResume {
		return ErrMock
	}
	if o.state == audio.OutputSuspended {
		o.state = audio.OutputRunning
	}
	return nil
}

// State реализует audio.Output
func (o *Output) State() audio.OutputState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InitCalls возвращает число вызовов Init
func (o *Output) InitCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initCalls
}

// ResumeCalls возвращает число вызовов Resume
func (o *Output) ResumeCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resumeCalls
}

// SuspendCalls возвращает число вызовов Suspend
func (o *Output) SuspendCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.suspendCalls
}

// Streams возвращает число подключенных потоков
func (o *Output) Streams() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streams)
}

// Pull прокачивает n отсчетов через все подключенные потоки
func (o *Output) Pull(n int) {
	o.mu.Lock()
	streams := append([]beep.Streamer(nil), o.streams...)
	o.mu.Unlock()

	buf := make([][2]float64, n)
	for _, s := range streams {
		s.Stream(buf)
	}
}

// Opener заглушка открытия потоков по URL
type Opener struct {
	mu    sync.Mutex
	opens map[string]int
	fail  map[string]bool
	gate  chan struct{}
}

// NewOpener создает заглушку открытия потоков
func NewOpener() *Opener {
	return &Opener{
		opens: make(map[string]int),
		fail:  make(map[string]bool),
	}
}

// SetFail настраивает сбой открытия для URL
func (o *Opener) SetFail(url string, fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail[url] = fail
}

// Hold задерживает все последующие открытия до вызова Release
func (o *Opener) Hold() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gate = make(chan struct{})
}

// Release пропускает задержанные открытия
func (o *Opener) Release() {
	o.mu.Lock()
	gate := o.gate
	o.gate = nil
	o.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Opens возвращает число открытий URL
func (o *Opener) Opens(url string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[url]
}

// Open реализует audio.Opener
func (o *Opener) Open(ctx context.Context, url string) (io.ReadSeekCloser, error) {
	o.mu.Lock()
	o.opens[url]++
	fail := o.fail[url]
	gate := o.gate
	o.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, ErrMock
	}
	return nopCloser{bytes.NewReader([]byte(url))}, nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// Decoder возвращает декодер, который вместо разбора потока выдает
// синусоиду длиной length отсчетов с частотой rate
func Decoder(rate beep.SampleRate, length int) audio.Decoder {
	return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
		return &Tone{length: length, closer: rc}, format, nil
	}
}

// FailingDecoder возвращает декодер, который всегда завершается ошибкой
func FailingDecoder() audio.Decoder {
	return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return nil, beep.Format{}, ErrMock
	}
}

// Tone синтетический поток фиксированной длины
type Tone struct {
	mu     sync.Mutex
	pos    int
	length int
	closer io.Closer
}

// Stream реализует beep.Streamer
func (t *Tone) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pos >= t.length {
		return 0, false
	}
	n := 0
	for n < len(samples) && t.pos < t.length {
		v := 0.5 * math.Sin(2*math.Pi*float64(t.pos)/32)
		samples[n] = [2]float64{v, v}
		n++
		t.pos++
	}
	return n, true
}

// Err реализует beep.Streamer
func (t *Tone) Err() error { return nil }

// Len реализует beep.StreamSeeker
func (t *Tone) Len() int { return t.length }

// Position реализует beep.StreamSeeker
func (t *Tone) Position() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// Seek реализует beep.StreamSeeker
func (t *Tone) Seek(p int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p < 0 || p > t.length {
		return errors.New("mock: позиция вне потока")
	}
	t.pos = p
	return nil
}

// Close реализует beep.StreamCloser
func (t *Tone) Close() error { return nil }
