package notify

import (
	"errors"
	"testing"
)

type recorder struct {
	notified  []string
	beeps     int
	notifyErr error
	beepErr   error
}

func (r *recorder) Notify(title, body string) error {
	if r.notifyErr != nil {
		return r.notifyErr
	}
	r.notified = append(r.notified, title+": "+body)
	return nil
}

func (r *recorder) Beep() error {
	r.beeps++
	return r.beepErr
}

func TestSend(t *testing.T) {
	tests := []struct {
		name      string
		rec       *recorder
		wantErr   bool
		wantBeeps int
	}{
		{"notification and beep", &recorder{}, false, 1},
		{"beep failure is ignored", &recorder{beepErr: errors.New("no speaker")}, false, 1},
		{"notify failure skips beep", &recorder{notifyErr: errors.New("no dbus")}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Send(tt.rec, "Prayer Time Reminder", "Asr in 10 minutes")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Send error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.rec.beeps != tt.wantBeeps {
				t.Errorf("beeps = %d, want %d", tt.rec.beeps, tt.wantBeeps)
			}
		})
	}
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	if err := Send(n, "t", "b"); err != nil {
		t.Errorf("Nop Send error: %v", err)
	}
}

func TestNewDesktop_SetsAppName(t *testing.T) {
	d := NewDesktop("solat-test", nil)
	if d == nil {
		t.Fatal("NewDesktop returned nil")
	}
}
