package freshet

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mr-joshcrane/freshet/store"
)

// Subscriber drains a Receiver and records whatever it delivered.
type Subscriber struct {
	receiver Receiver
	Store    store.Store
}

type Receiver interface {
	Receive(context.Context) ([]Observation, error)
}

func NewSubscriber(receiver Receiver, s store.Store) *Subscriber {
	return &Subscriber{
		receiver: receiver,
		Store:    s,
	}
}

// ChannelReceiver collects observations from a channel, typically one
// fed by a ChannelTransport, until the channel closes or ctx is
// cancelled.
type ChannelReceiver struct {
	observations <-chan Observation
}

func NewChannelReceiver(observations <-chan Observation) *ChannelReceiver {
	return &ChannelReceiver{observations: observations}
}

func (r *ChannelReceiver) Receive(ctx context.Context) ([]Observation, error) {
	var observations []Observation
	for {
		select {
		case <-ctx.Done():
			return observations, nil
		case o, ok := <-r.observations:
			if !ok {
				return observations, nil
			}
			observations = append(observations, o)
		}
	}
}

// EventBridgeReceiver unpacks the observation carried by one
// EventBridge event.
type EventBridgeReceiver struct {
	event events.EventBridgeEvent
}

func NewEventBridgeSubscriber(event events.EventBridgeEvent, s store.Store) *Subscriber {
	return &Subscriber{
		receiver: &EventBridgeReceiver{event: event},
		Store:    s,
	}
}

func (r *EventBridgeReceiver) Receive(ctx context.Context) ([]Observation, error) {
	var o Observation
	err := json.Unmarshal(r.event.Detail, &o)
	if err != nil {
		return nil, err
	}
	return []Observation{o}, nil
}

func (s *Subscriber) Receive(ctx context.Context) error {
	observations, err := s.receiver.Receive(ctx)
	if err != nil {
		return err
	}
	records := make([]store.Observation, 0, len(observations))
	for _, o := range observations {
		records = append(records, store.Observation{
			Label: o.Label,
			Order: o.Order,
			Value: o.Value,
			Start: o.Start,
		})
	}
	return s.Store.Save(records)
}
