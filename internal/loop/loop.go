// Package loop содержит однопоточный цикл событий приложения.
//
// Все изменения состояния плеера и рендерера выполняются в горутине Update
// bubbletea. Асинхронные источники (динамик, таймеры, загрузка потока)
// не трогают состояние напрямую, а публикуют замыкания через Poster.
package loop

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Poster публикует задачу в цикл событий
type Poster interface {
	Post(fn func())
}

// Task сообщение bubbletea с задачей для выполнения в Update
type Task func()

// Run выполняет задачу, если сообщение является Task
func Run(msg tea.Msg) bool {
	task, ok := msg.(Task)
	if !ok {
		return false
	}
	if task != nil {
		task()
	}
	return true
}

// Sender абстракция над (*tea.Program).Send
type Sender interface {
	Send(msg tea.Msg)
}

// Program публикует задачи в запущенную программу bubbletea.
//
// Send у bubbletea блокируется, пока Update не прочитает сообщение, а Post
// вызывается в том числе из самого Update. Поэтому задачи складываются в
// очередь, а в программу их по порядку отправляет отдельная горутина.
// До вызова Attach задачи накапливаются.
type Program struct {
	mu       sync.Mutex
	pending  []func()
	attached bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewProgram создает Poster для bubbletea
func NewProgram() *Program {
	return &Program{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Attach подключает программу и запускает отправку задач.
// Повторное подключение игнорируется.
func (p *Program) Attach(s Sender) {
	p.mu.Lock()
	if p.attached {
		p.mu.Unlock()
		return
	}
	p.attached = true
	p.mu.Unlock()

	go p.forward(s)
	p.signal()
}

// Post реализует Poster. Никогда не блокируется.
func (p *Program) Post(fn func()) {
	p.mu.Lock()
	p.pending = append(p.pending, fn)
	p.mu.Unlock()
	p.signal()
}

// Close останавливает отправку. Неотправленные задачи отбрасываются.
func (p *Program) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *Program) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Program) forward(s Sender) {
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		for {
			p.mu.Lock()
			if len(p.pending) == 0 {
				p.mu.Unlock()
				break
			}
			fn := p.pending[0]
			p.pending = p.pending[1:]
			p.mu.Unlock()

			s.Send(Task(fn))

			select {
			case <-p.done:
				return
			default:
			}
		}
	}
}

// Queue накапливает задачи до явного вызова Drain.
// Используется в тестах и в неинтерактивных командах.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post реализует Poster
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len возвращает число ожидающих задач
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain выполняет все задачи, включая опубликованные во время выполнения.
// Возвращает число выполненных задач.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		fn()
		n++
	}
}
