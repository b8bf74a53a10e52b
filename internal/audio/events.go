package audio

import "time"

// EventType тип уведомления аудиоэлемента
type EventType string

// Уведомления аудиоэлемента
const (
	EventPlay           EventType = "play"
	EventPause          EventType = "pause"
	EventEnded          EventType = "ended"
	EventTimeUpdate     EventType = "timeupdate"
	EventLoadedMetadata EventType = "loadedmetadata"
	EventEmptied        EventType = "emptied"
	EventError          EventType = "error"
)

// Event уведомление аудиоэлемента
type Event struct {
	Type        EventType
	CurrentTime time.Duration
	Duration    time.Duration // 0 если длительность неизвестна
	Metadata    Metadata      // только для EventLoadedMetadata
	StuckCount  int           // сколько секунд позиция не менялась во время воспроизведения
	Err         error         // только для EventError
}

// Listener обработчик уведомлений
type Listener func(Event)
