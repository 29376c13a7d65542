// Package tray shows a system-tray icon with show, mute and exit actions.
package tray

import (
	_ "embed"
	"sync"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"
)

//go:embed icon.png
var icon []byte

// Icon returns the embedded tray icon as PNG bytes.
func Icon() []byte {
	return icon
}

// Handlers are invoked from the tray goroutine. They must be safe to call
// concurrently with the UI loop.
type Handlers struct {
	Show       func()
	ToggleMute func() bool // returns the new mute state
	Quit       func()
}

// Tray is a running tray icon.
type Tray struct {
	mu   sync.Mutex
	mute *systray.MenuItem
	done chan struct{}
	once sync.Once
	end  func()
}

// Start registers the tray icon and begins dispatching menu clicks to h.
func Start(muted bool, h Handlers) *Tray {
	t := &Tray{done: make(chan struct{})}

	start, end := systray.RunWithExternalLoop(func() {
		systray.SetIcon(icon)
		systray.SetTitle("Solat")
		systray.SetTooltip("Prayer times")

		show := systray.AddMenuItem("Show", "Bring the countdown to the front")
		mute := systray.AddMenuItemCheckbox("Mute notifications", "Silence prayer reminders", muted)
		systray.AddSeparator()
		quit := systray.AddMenuItem("Exit", "Quit solat")

		t.mu.Lock()
		t.mute = mute
		t.mu.Unlock()

		ev := events{show: show.ClickedCh, mute: mute.ClickedCh, quit: quit.ClickedCh}
		go dispatch(t.done, ev, h, t.SetMuted)
		log.Debug().Msg("tray ready")
	}, func() {})

	t.end = end
	start()
	return t
}

// SetMuted updates the checkbox to match the mute state.
func (t *Tray) SetMuted(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mute == nil {
		return
	}
	if v {
		t.mute.Check()
	} else {
		t.mute.Uncheck()
	}
}

// SetStatus shows text as the tray tooltip.
func (t *Tray) SetStatus(text string) {
	systray.SetTooltip(text)
}

// Stop removes the tray icon. It is safe to call more than once.
func (t *Tray) Stop() {
	t.once.Do(func() {
		close(t.done)
		t.end()
	})
}

type events struct {
	show <-chan struct{}
	mute <-chan struct{}
	quit <-chan struct{}
}

// dispatch runs until done is closed or Exit is clicked.
func dispatch(done <-chan struct{}, ev events, h Handlers, setChecked func(bool)) {
	for {
		select {
		case <-done:
			return
		case <-ev.show:
			if h.Show != nil {
				h.Show()
			}
		case <-ev.mute:
			if h.ToggleMute != nil {
				setChecked(h.ToggleMute())
			}
		case <-ev.quit:
			if h.Quit != nil {
				h.Quit()
			}
			return
		}
	}
}
