// Package notify shows one transient user notification at a time.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
	Warning Level = "warning"
)

// DefaultDuration is how long a notification stays visible unless
// dismissed.
const DefaultDuration = 3 * time.Second

type Notification struct {
	// Seq increases with every notification shown by the emitter.
	Seq      uint64
	Message  string
	Level    Level
	Duration time.Duration
}

// Listener is called after a notification is shown (visible=true) or
// removed (visible=false). It must not call back into the emitter
// synchronously.
type Listener func(n Notification, visible bool)

type Emitter struct {
	mu        sync.Mutex
	seq       uint64
	current   *Notification
	timer     *time.Timer
	listeners []Listener
	closed    bool
}

func NewEmitter(listeners ...Listener) *Emitter {
	return &Emitter{listeners: listeners}
}

// Subscribe adds a listener for later notifications.
func (e *Emitter) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Show displays msg for DefaultDuration.
func (e *Emitter) Show(msg string, level Level) Notification {
	return e.ShowFor(msg, level, DefaultDuration)
}

// ShowFor replaces the visible notification with msg and schedules its
// removal after d. A non-positive d falls back to DefaultDuration.
func (e *Emitter) ShowFor(msg string, level Level, d time.Duration) Notification {
	if d <= 0 {
		d = DefaultDuration
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Notification{}
	}
	e.stopTimer()
	replaced := e.current
	e.seq++
	n := Notification{Seq: e.seq, Message: msg, Level: level, Duration: d}
	e.current = &n
	seq := e.seq
	e.timer = time.AfterFunc(d, func() { e.expire(seq) })
	listeners := e.snapshot()
	e.mu.Unlock()

	if replaced != nil {
		emit(listeners, *replaced, false)
	}
	emit(listeners, n, true)
	return n
}

// Dismiss removes the visible notification, if any.
func (e *Emitter) Dismiss() {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return
	}
	e.expireLocked()
}

// Current returns the visible notification.
func (e *Emitter) Current() (Notification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Notification{}, false
	}
	return *e.current, true
}

// Close stops the pending timer. Later calls to Show are ignored.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimer()
	e.current = nil
	e.closed = true
}

func (e *Emitter) expire(seq uint64) {
	e.mu.Lock()
	if e.current == nil || e.current.Seq != seq {
		e.mu.Unlock()
		return
	}
	e.expireLocked()
}

// expireLocked is entered with e.mu held and releases it.
func (e *Emitter) expireLocked() {
	e.stopTimer()
	n := *e.current
	e.current = nil
	listeners := e.snapshot()
	e.mu.Unlock()
	emit(listeners, n, false)
}

func (e *Emitter) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Emitter) snapshot() []Listener {
	return append([]Listener(nil), e.listeners...)
}

func emit(listeners []Listener, n Notification, visible bool) {
	for _, l := range listeners {
		l(n, visible)
	}
}
