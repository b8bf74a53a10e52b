package loop

import (
	"sync"
	"time"
)

// DefaultFPS частота кадров по умолчанию
const DefaultFPS = 30

// FrameID идентификатор запрошенного кадра, 0 означает отсутствие кадра
type FrameID uint64

// Frames планирует обратные вызовы кадров в цикле событий.
//
// Терминал не сообщает о вертикальной синхронизации, поэтому кадр
// планируется таймером с фиксированным интервалом. Сам вызов всегда
// выполняется в цикле событий, отмена действует до следующего кадра.
type Frames struct {
	poster   Poster
	interval time.Duration

	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]*time.Timer
}

// NewFrames создает планировщик кадров с заданной частотой
func NewFrames(p Poster, fps int) *Frames {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Frames{
		poster:   p,
		interval: time.Second / time.Duration(fps),
		pending:  make(map[FrameID]*time.Timer),
	}
}

// Interval возвращает интервал между кадрами
func (f *Frames) Interval() time.Duration {
	return f.interval
}

// RequestFrame планирует однократный вызов fn на следующем кадре
func (f *Frames) RequestFrame(fn func()) FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.pending[id] = time.AfterFunc(f.interval, func() {
		f.poster.Post(func() {
			// Кадр мог быть отменен, пока задача ждала в очереди
			if !f.take(id) {
				return
			}
			fn()
		})
	})
	return id
}

// CancelFrame отменяет запрошенный кадр. Повторная отмена безопасна.
func (f *Frames) CancelFrame(id FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.pending[id]; ok {
		t.Stop()
		delete(f.pending, id)
	}
}

// Pending возвращает число запланированных кадров
func (f *Frames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Close отменяет все запланированные кадры
func (f *Frames) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.pending {
		t.Stop()
		delete(f.pending, id)
	}
}

func (f *Frames) take(id FrameID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pending[id]; !ok {
		return false
	}
	delete(f.pending, id)
	return true
}
