// Package notify raises desktop notifications for capture outcomes.
// Failures to notify are never surfaced; a screenshot that saved fine
// should not fail because the notification daemon is absent.
package notify

import (
	"fmt"
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

// Kind selects the notification urgency.
type Kind int

const (
	Info Kind = iota
	Error
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(kind Kind, summary, body string) error
}

// Desktop sends notifications over the org.freedesktop.Notifications
// session bus interface.
type Desktop struct{}

func (Desktop) Notify(kind Kind, summary, body string) error {
	bus, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}

	urgency := byte(1)
	timeoutMS := int32(2500)
	if kind == Error {
		urgency = 2
		timeoutMS = 6000
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	obj := bus.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"Capit", uint32(0), "", summary, body, []string{}, hints, timeoutMS)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

// Saved announces a finished capture. Nil-safe; errors are dropped.
func Saved(n Notifier, path string) {
	if n == nil {
		return
	}
	_ = n.Notify(Info, "Screenshot saved", filepath.Base(path))
}

// Failed announces a capture error. Nil-safe; errors are dropped.
func Failed(n Notifier, reason string) {
	if n == nil {
		return
	}
	_ = n.Notify(Error, "Screenshot failed", reason)
}
