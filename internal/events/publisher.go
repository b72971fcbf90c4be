package events

import (
	"encoding/json"
	"sync"

	"broride/internal/domain/models"
	"broride/internal/utils"
)

// Publisher delivers domain events to the notification sink. Delivery is
// fire-and-forget: implementations log failures and never propagate them
// back into the ledger.
type Publisher interface {
	Publish(evt models.Event)
}

// LogPublisher writes events to the process log. Used when no broker is
// configured.
type LogPublisher struct{}

func (LogPublisher) Publish(evt models.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		utils.LogEvent("", "events", "marshal_failed", err.Error())
		return
	}
	utils.LogEvent("", "events", string(evt.Type), string(payload))
}

// Recorder collects events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *Recorder) Publish(evt models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...)
}
