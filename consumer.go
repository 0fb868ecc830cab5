package freshet

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
)

// Consumer drives sequences to exhaustion, publishing one labeled
// observation per produced value.
type Consumer struct {
	transport Transport
}

type ConsumerOptions func(*Consumer)

func NewConsumer(options ...ConsumerOptions) *Consumer {
	c := &Consumer{
		transport: NewWriterTransport(os.Stdout),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Consume drains seq synchronously. It publishes a start observation
// for label, then every produced value in production order, and
// returns the producer's terminal error state.
func (c *Consumer) Consume(seq Sequence, label string) error {
	err := c.transport.Publish(Observation{Label: label, Start: true})
	if err != nil {
		return err
	}
	producer := seq.Iter()
	order := 0
	for producer.Next() {
		order++
		err := c.transport.Publish(Observation{
			Label: label,
			Order: order,
			Value: producer.Value(),
		})
		if err != nil {
			return err
		}
	}
	return producer.Err()
}

// ConsumeAsync drains seq through the asynchronous protocol,
// suspending on each step's completion channel. Cancelling ctx stops
// the consumer between steps.
func (c *Consumer) ConsumeAsync(ctx context.Context, seq AsyncSequence, label string) error {
	err := c.transport.Publish(Observation{Label: label, Start: true})
	if err != nil {
		return err
	}
	producer := seq.IterAsync()
	order := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case step := <-producer.NextAsync():
			if step.Err != nil {
				return step.Err
			}
			if step.Done {
				return nil
			}
			order++
			err := c.transport.Publish(Observation{
				Label: label,
				Order: order,
				Value: step.Value,
			})
			if err != nil {
				return err
			}
		}
	}
}

// Demo runs the four demonstration consumers against out: both
// construction shapes, each through both protocols. The asynchronous
// consumers are spawned first in program order but held on a gate
// until the synchronous consumers have drained, so synchronous output
// always lands before any asynchronous output. Each consumer's own
// lines stay in production order.
func Demo(out io.Writer) error {
	consumer := NewConsumer(WithWriterTransport(out))
	ctx := context.Background()

	release := make(chan struct{})
	var wg sync.WaitGroup
	asyncErrs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-release
		asyncErrs[0] = consumer.ConsumeAsync(ctx, NewSequence(), "async struct literal")
	}()
	go func() {
		defer wg.Done()
		<-release
		asyncErrs[1] = consumer.ConsumeAsync(ctx, NewCounter(), "async named type")
	}()

	syncErr := consumer.Consume(NewSequence(), "struct literal")
	if syncErr == nil {
		syncErr = consumer.Consume(NewCounter(), "named type")
	}

	// The gate opens on every path so the async consumers always drain.
	close(release)
	wg.Wait()
	return errors.Join(syncErr, asyncErrs[0], asyncErrs[1])
}
