package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// OutputState состояние устройства вывода
type OutputState int

// Состояния устройства вывода
const (
	OutputClosed OutputState = iota
	OutputRunning
	OutputSuspended
)

func (s OutputState) String() string {
	switch s {
	case OutputRunning:
		return "running"
	case OutputSuspended:
		return "suspended"
	default:
		return "closed"
	}
}

// Output устройство вывода звука, конечная точка аудиографа
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Suspend() error
	Resume() error
	State() OutputState
}

// SpeakerOutput вывод через динамик beep. В процессе может быть только один.
type SpeakerOutput struct {
	mu    sync.Mutex
	state OutputState
}

// NewSpeakerOutput создает вывод через динамик
func NewSpeakerOutput() *SpeakerOutput {
	return &SpeakerOutput{}
}

// Init инициализирует динамик
func (o *SpeakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := speaker.Init(rate, bufferSize); err != nil {
		return err
	}
	o.state = OutputRunning
	return nil
}

// Play добавляет поток в микшер динамика
func (o *SpeakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Suspend приостанавливает устройство
func (o *SpeakerOutput) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != OutputRunning {
		return nil
	}
	if err := speaker.Suspend(); err != nil {
		return err
	}
	o.state = OutputSuspended
	return nil
}

// Resume возобновляет работу устройства
func (o *SpeakerOutput) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != OutputSuspended {
		return nil
	}
	if err := speaker.Resume(); err != nil {
		return err
	}
	o.state = OutputRunning
	return nil
}

// State возвращает текущее состояние
func (o *SpeakerOutput) State() OutputState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}
