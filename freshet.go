package freshet

import (
	"errors"
)

// DefaultBound is the bound a sequence gets when none is configured.
const DefaultBound = 5

// ErrSequenceExhausted is reported by any production call made after
// the sequence has already signalled that it is done.
var ErrSequenceExhausted = errors.New("freshet: sequence exhausted")

// Step is the outcome of one production step. Done marks exhaustion;
// Err is set only when the step was requested after exhaustion.
type Step struct {
	Value int
	Done  bool
	Err   error
}

// Producer is the synchronous production contract. Next advances the
// sequence and reports whether a value is available; Value returns the
// value produced by the last successful Next; Err returns the terminal
// error state, nil on clean exhaustion.
type Producer interface {
	Next() bool
	Value() int
	Err() error
}

// AsyncProducer is the asynchronous production contract. Each call to
// NextAsync performs one production step and delivers the outcome on
// an already-resolved single-use channel.
type AsyncProducer interface {
	NextAsync() <-chan Step
}

// Sequence is anything that can hand out a synchronous producer over
// its own state.
type Sequence interface {
	Iter() Producer
}

// AsyncSequence is anything that can hand out an asynchronous producer
// over its own state.
type AsyncSequence interface {
	IterAsync() AsyncProducer
}

// Iterable couples both capability accessors. Satisfying Iterable is
// purely structural: any value with the accessors qualifies, whatever
// its construction shape.
type Iterable interface {
	Sequence
	AsyncSequence
}

// counter holds the one counting rule every construction shape shares.
// A counter belongs to exactly one sequence instance and is never
// reset; once exhausted, further steps are errors.
type counter struct {
	bound int
	next  int
	done  bool
}

func (c *counter) step() Step {
	if c.done {
		return Step{Done: true, Err: ErrSequenceExhausted}
	}
	v := c.next
	c.next++
	if v >= c.bound {
		c.done = true
		return Step{Done: true}
	}
	return Step{Value: v}
}

// SequenceOptions configure a sequence at construction time.
type SequenceOptions func(*counter)

// WithBound sets the exclusive upper bound of the produced values.
func WithBound(bound int) SequenceOptions {
	return func(c *counter) {
		c.bound = bound
	}
}

// ProducerFunc adapts a step function into a Producer.
type ProducerFunc struct {
	Advance func() Step
	value   int
	err     error
}

func (p *ProducerFunc) Next() bool {
	step := p.Advance()
	p.value = step.Value
	p.err = step.Err
	return !step.Done
}

func (p *ProducerFunc) Value() int {
	return p.value
}

func (p *ProducerFunc) Err() error {
	return p.err
}

// asyncProducer wraps a step function in the asynchronous contract.
// The asynchrony is a protocol formality: every completion is resolved
// before NextAsync returns.
type asyncProducer struct {
	advance func() Step
}

func (p *asyncProducer) NextAsync() <-chan Step {
	resolved := make(chan Step, 1)
	resolved <- p.advance()
	close(resolved)
	return resolved
}

// sequence is the capability-object shape: callers only ever see it
// through the Sequence and AsyncSequence interfaces.
type sequence struct {
	c counter
}

// NewSequence returns a bounded counting sequence in its
// capability-object shape. Both accessors view the same counter, so a
// sequence is driven to exhaustion exactly once and then discarded.
func NewSequence(options ...SequenceOptions) Iterable {
	s := &sequence{c: counter{bound: DefaultBound}}
	for _, option := range options {
		option(&s.c)
	}
	return s
}

func (s *sequence) Iter() Producer {
	return &ProducerFunc{Advance: s.c.step}
}

func (s *sequence) IterAsync() AsyncProducer {
	return &asyncProducer{advance: s.c.step}
}

// Counter is the named-type shape: the same counting rule held as
// instance state on an exported type. A Counter and a NewSequence
// value with equal bounds are interchangeable behind the interfaces.
type Counter struct {
	c counter
}

func NewCounter(options ...SequenceOptions) *Counter {
	c := &Counter{c: counter{bound: DefaultBound}}
	for _, option := range options {
		option(&c.c)
	}
	return c
}

func (c *Counter) Iter() Producer {
	return &ProducerFunc{Advance: c.c.step}
}

func (c *Counter) IterAsync() AsyncProducer {
	return &asyncProducer{advance: c.c.step}
}
