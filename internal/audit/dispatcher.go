package audit

import "github.com/rs/zerolog/log"

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher decouples audit writes from request handling: events go
// through a buffered channel and a single worker. A full queue drops the
// event rather than blocking the API.
type Dispatcher struct {
	recorder Recorder
	queue    chan Event
}

func NewDispatcher(recorder Recorder) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(ev); err != nil {
			log.Warn().Err(err).Str("action", ev.Action).Msg("audit record failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
