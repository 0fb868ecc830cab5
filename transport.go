package freshet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

// Observation is one reported production step. Order is 1-based and
// counted per consumer; the start observation carries Order 0 and
// Start true.
type Observation struct {
	Label string
	Order int
	Value int
	Start bool
}

// String renders the observation in its output line format.
func (o Observation) String() string {
	if o.Start {
		return fmt.Sprintf("starting to iterate over %s", o.Label)
	}
	return fmt.Sprintf("current value is %d from iterable type %s", o.Value, o.Label)
}

type Transport interface {
	Publish(Observation) error
}

// WriterTransport renders observations one line at a time. Concurrent
// consumers may share one writer, so publishing is serialized.

type WriterTransport struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterTransport(w io.Writer) *WriterTransport {
	return &WriterTransport{w: w}
}

func WithWriterTransport(w io.Writer) ConsumerOptions {
	return func(c *Consumer) {
		c.transport = NewWriterTransport(w)
	}
}

func (t *WriterTransport) Publish(o Observation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w, o)
	return err
}

// InMemoryTransport is a Transport that collects observations within
// process.

type InMemoryTransport struct {
	observations *[]Observation
}

func WithInMemoryTransport(observations *[]Observation) ConsumerOptions {
	return func(c *Consumer) {
		c.transport = &InMemoryTransport{observations: observations}
	}
}

func (t *InMemoryTransport) Publish(o Observation) error {
	*t.observations = append(*t.observations, o)
	return nil
}

// ChannelTransport forwards observations to a channel, typically one
// registered with a Subscriber.

type ChannelTransport struct {
	observations chan<- Observation
}

func WithChannelTransport(observations chan<- Observation) ConsumerOptions {
	return func(c *Consumer) {
		c.transport = &ChannelTransport{observations: observations}
	}
}

func (t *ChannelTransport) Publish(o Observation) error {
	t.observations <- o
	return nil
}

// EventBridgeTransport is a Transport that ships observations via AWS
// EventBridge.

type EventBridgeClient interface {
	PutEvents(ctx context.Context, events *eventbridge.PutEventsInput, opts ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

type EventBridgeTransport struct {
	EventBridge EventBridgeClient
}

func WithEventBridgeTransport(eventBridge EventBridgeClient) ConsumerOptions {
	return func(c *Consumer) {
		c.transport = &EventBridgeTransport{EventBridge: eventBridge}
	}
}

func (t *EventBridgeTransport) Publish(o Observation) error {
	detail, err := json.Marshal(o)
	if err != nil {
		return err
	}
	putEventsInput := &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Detail:     aws.String(string(detail)),
				DetailType: aws.String("freshet"),
				Source:     aws.String("freshet"),
			},
		},
	}
	resp, err := t.EventBridge.PutEvents(context.Background(), putEventsInput)
	if err != nil {
		return err
	}
	if resp.FailedEntryCount > 0 {
		return fmt.Errorf("failed to publish observations: %v", resp)
	}
	return nil
}
