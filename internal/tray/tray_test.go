package tray

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"
)

func TestIcon_IsPNG(t *testing.T) {
	if !bytes.HasPrefix(Icon(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("embedded icon is not a PNG")
	}
}

func TestDispatch(t *testing.T) {
	show := make(chan struct{})
	mute := make(chan struct{})
	quit := make(chan struct{})
	done := make(chan struct{})

	var shows, quits atomic.Int32
	var muted atomic.Bool
	checked := make(chan bool, 2)

	h := Handlers{
		Show: func() { shows.Add(1) },
		ToggleMute: func() bool {
			v := !muted.Load()
			muted.Store(v)
			return v
		},
		Quit: func() { quits.Add(1) },
	}

	finished := make(chan struct{})
	go func() {
		dispatch(done, events{show: show, mute: mute, quit: quit}, h, func(v bool) { checked <- v })
		close(finished)
	}()

	show <- struct{}{}
	mute <- struct{}{}
	if v := <-checked; !v {
		t.Error("first mute click should check the item")
	}
	mute <- struct{}{}
	if v := <-checked; v {
		t.Error("second mute click should uncheck the item")
	}
	quit <- struct{}{}

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return after Exit")
	}
	if shows.Load() != 1 || quits.Load() != 1 {
		t.Errorf("shows = %d quits = %d, want 1 and 1", shows.Load(), quits.Load())
	}
}

func TestDispatch_StopsOnDone(t *testing.T) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		dispatch(done, events{}, Handlers{}, func(bool) {})
		close(finished)
	}()

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return after done was closed")
	}
}
