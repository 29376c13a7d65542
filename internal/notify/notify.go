// Package notify provides desktop notifications and an audible cue.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows a notification with the given summary and body.
	Notify(title, body string) error
	// Beep plays a short audible cue.
	Beep() error
}

// Desktop delivers notifications through the platform notification service.
type Desktop struct {
	// Icon is a path to an image file or raw image bytes; optional.
	Icon any
}

// NewDesktop returns a Desktop notifier registered under appName.
func NewDesktop(appName string, icon any) *Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{Icon: icon}
}

// Notify shows a desktop notification.
func (d *Desktop) Notify(title, body string) error {
	icon := d.Icon
	if icon == nil {
		icon = ""
	}
	if err := beeep.Notify(title, body, icon); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Beep plays the system beep.
func (d *Desktop) Beep() error {
	if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		return fmt.Errorf("beep: %w", err)
	}
	return nil
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }
func (Nop) Beep() error                 { return nil }

// Send shows a notification followed by the audible cue. A failed beep is
// logged and does not fail the call.
func Send(n Notifier, title, body string) error {
	if err := n.Notify(title, body); err != nil {
		return err
	}
	if err := n.Beep(); err != nil {
		log.Debug().Err(err).Msg("audible cue unavailable")
	}
	return nil
}
