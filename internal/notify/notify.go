// Package notify keeps the user-visible notifications of an editor session.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one visible message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notifier accepts notifications. Passing a notification whose ID is already
// active updates that entry in place instead of adding another one. The
// returned ID can be reused for later updates.
type Notifier interface {
	Notify(n Notification) string
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification) string

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) string { return f(n) }

// Center is an in-memory Notifier that tracks the active notifications in
// the order they were first raised.
type Center struct {
	mu     sync.Mutex
	active []Notification
	now    func() time.Time
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Notify implements Notifier.
func (c *Center) Notify(n Notification) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	n.UpdatedAt = c.now()

	if i := c.indexOf(n.ID); i >= 0 {
		c.active[i] = n
		return n.ID
	}
	c.active = append(c.active, n)
	return n.ID
}

// Dismiss removes the notification with the given ID, if active.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		c.active = slices.Delete(c.active, i, i+1)
	}
}

// Active returns a copy of the active notifications.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.active)
}

// Clear dismisses every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

func (c *Center) indexOf(id string) int {
	return slices.IndexFunc(c.active, func(n Notification) bool { return n.ID == id })
}

// Discard is a Notifier that drops everything.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(n Notification) string {
	if n.ID == "" {
		return uuid.NewString()
	}
	return n.ID
}
