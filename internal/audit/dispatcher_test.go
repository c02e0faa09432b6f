package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	events chan Event
}

func (r *captureRecorder) Record(ev Event) error {
	r.events <- ev
	return nil
}

func TestDispatchReachesRecorder(t *testing.T) {
	rec := &captureRecorder{events: make(chan Event, 1)}
	d := NewDispatcher(rec)

	userID := uint(7)
	d.Dispatch(Event{UserID: &userID, Action: "rating_submitted", Entity: "rating"})

	select {
	case ev := <-rec.events:
		assert.Equal(t, "rating_submitted", ev.Action)
		require.NotNil(t, ev.UserID)
		assert.Equal(t, uint(7), *ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("event never reached the recorder")
	}
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	// A recorder that never drains forces the queue to fill.
	blocked := &captureRecorder{events: make(chan Event)}
	d := NewDispatcher(blocked)

	// Dispatch must never block the caller, full queue or not.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			d.Dispatch(Event{Action: "user_signed_up", Entity: "user"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch blocked on a full queue")
	}
}
