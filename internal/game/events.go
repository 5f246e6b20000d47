package game

import (
	"log"
	"time"
)

// Event names published by the turn sequencer.
const (
	EventPhaseChange      = "onPhaseChange"
	EventTurnBegin        = "onTurnBegin"
	EventTurnEnd          = "onTurnEnd"
	EventPhaseTimeExpired = "onPhaseTimeExpired"
)

// PhaseChangeEvent is published once per effective phase transition.
type PhaseChangeEvent struct {
	Turn          int       `json:"turn"`
	PreviousPhase string    `json:"previousPhase"`
	NewPhase      string    `json:"newPhase"`
	Timestamp     time.Time `json:"timestamp"`
}

// TurnBeginEvent is published when a new turn starts.
type TurnBeginEvent struct {
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnEndEvent is published when a completed turn is recorded to history.
type TurnEndEvent struct {
	Turn    int       `json:"turn"`
	EndTime time.Time `json:"endTime"`
}

// PhaseTimeExpiredEvent is published when a phase deadline fires, before the
// deadline callback runs.
type PhaseTimeExpiredEvent struct {
	Turn      int           `json:"turn"`
	Phase     string        `json:"phase"`
	Limit     time.Duration `json:"limit"`
	Timestamp time.Time     `json:"timestamp"`
}

// Handler receives one published event payload.
type Handler func(payload any)

// Bus is the host-supplied publish/subscribe boundary. The sequencer only
// publishes; the host decides who listens.
type Bus interface {
	Publish(name string, payload any)
	Subscribe(name string, h Handler)
}

// EventHub is an in-process Bus with synchronous, in-order dispatch.
// Everything runs on the game loop, so there is no locking.
type EventHub struct {
	handlers map[string][]Handler
}

func NewEventHub() *EventHub {
	return &EventHub{handlers: map[string][]Handler{}}
}

// Subscribe registers h for events published under name.
func (hub *EventHub) Subscribe(name string, h Handler) {
	hub.handlers[name] = append(hub.handlers[name], h)
}

// Publish delivers payload to every subscriber of name, in subscription
// order. A panicking handler is contained so one bad listener cannot take
// down the tick that published the event.
func (hub *EventHub) Publish(name string, payload any) {
	for _, h := range hub.handlers[name] {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event %s: handler panic: %v", name, r)
				}
			}()
			h(payload)
		}()
	}
}
