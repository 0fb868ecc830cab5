package freshet_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mr-joshcrane/freshet"
)

func TestConsumer_EmitsStartThenValuesInOrder(t *testing.T) {
	t.Parallel()
	observations := []freshet.Observation{}
	c := freshet.NewConsumer(freshet.WithInMemoryTransport(&observations))
	err := c.Consume(freshet.NewSequence(), "object literal")
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	want := []freshet.Observation{
		{Label: "object literal", Start: true},
		{Label: "object literal", Order: 1, Value: 0},
		{Label: "object literal", Order: 2, Value: 1},
		{Label: "object literal", Order: 3, Value: 2},
		{Label: "object literal", Order: 4, Value: 3},
		{Label: "object literal", Order: 5, Value: 4},
	}
	if !cmp.Equal(observations, want) {
		t.Error(cmp.Diff(want, observations))
	}
}

func TestConsumer_RendersTheWireFormat(t *testing.T) {
	t.Parallel()
	buf := new(bytes.Buffer)
	c := freshet.NewConsumer(freshet.WithWriterTransport(buf))
	err := c.Consume(freshet.NewSequence(freshet.WithBound(2)), "object literal")
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	want := "starting to iterate over object literal\n" +
		"current value is 0 from iterable type object literal\n" +
		"current value is 1 from iterable type object literal\n"
	if !cmp.Equal(buf.String(), want) {
		t.Error(cmp.Diff(want, buf.String()))
	}
}

func TestConsumer_AsyncConsumptionMatchesSyncConsumption(t *testing.T) {
	t.Parallel()
	syncObservations := []freshet.Observation{}
	syncConsumer := freshet.NewConsumer(freshet.WithInMemoryTransport(&syncObservations))
	err := syncConsumer.Consume(freshet.NewSequence(), "demo")
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	asyncObservations := []freshet.Observation{}
	asyncConsumer := freshet.NewConsumer(freshet.WithInMemoryTransport(&asyncObservations))
	err = asyncConsumer.ConsumeAsync(context.Background(), freshet.NewSequence(), "demo")
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if !cmp.Equal(asyncObservations, syncObservations) {
		t.Error(cmp.Diff(syncObservations, asyncObservations))
	}
}

// stalledSequence hands out completions that never resolve.
type stalledSequence struct{}

type stalledProducer struct{}

func (s stalledSequence) IterAsync() freshet.AsyncProducer {
	return stalledProducer{}
}

func (p stalledProducer) NextAsync() <-chan freshet.Step {
	return make(chan freshet.Step)
}

func TestConsumer_AsyncConsumptionStopsWhenCancelled(t *testing.T) {
	t.Parallel()
	observations := []freshet.Observation{}
	c := freshet.NewConsumer(freshet.WithInMemoryTransport(&observations))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.ConsumeAsync(ctx, stalledSequence{}, "stalled")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("want context.DeadlineExceeded, got %v", err)
	}
	want := []freshet.Observation{{Label: "stalled", Start: true}}
	if !cmp.Equal(observations, want) {
		t.Error(cmp.Diff(want, observations))
	}
}

func TestDemo_SyncOutputPrecedesAsyncOutput(t *testing.T) {
	t.Parallel()
	buf := new(bytes.Buffer)
	err := freshet.Demo(buf)
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	var lines []string
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 24 {
		t.Fatalf("want 24 lines from 4 consumers, got %d", len(lines))
	}
	seenAsync := false
	for _, line := range lines {
		if strings.Contains(line, "async") {
			seenAsync = true
		} else if seenAsync {
			t.Errorf("synchronous line after asynchronous output: %q", line)
		}
	}
}

func TestDemo_EachConsumerReportsItsOwnLinesInProductionOrder(t *testing.T) {
	t.Parallel()
	buf := new(bytes.Buffer)
	err := freshet.Demo(buf)
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	labels := []string{"struct literal", "named type", "async struct literal", "async named type"}
	got := make(map[string][]string)
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		line := scanner.Text()
		// labels overlap as suffixes, so the longest match wins
		var label string
		for _, l := range labels {
			if strings.HasSuffix(line, " "+l) && len(l) > len(label) {
				label = l
			}
		}
		got[label] = append(got[label], line)
	}
	for _, label := range labels {
		want := []string{"starting to iterate over " + label}
		for v := 0; v < 5; v++ {
			want = append(want, freshet.Observation{Label: label, Order: v + 1, Value: v}.String())
		}
		if !cmp.Equal(got[label], want) {
			t.Error(cmp.Diff(want, got[label]))
		}
	}
}

var errWriterClosed = errors.New("writer closed")

// failingWriter accepts a fixed number of writes, then rejects the rest.
type failingWriter struct {
	remaining int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.remaining == 0 {
		return 0, errWriterClosed
	}
	w.remaining--
	return len(p), nil
}

func TestDemo_FailingWriterStillDrainsAsyncConsumers(t *testing.T) {
	before := runtime.NumGoroutine()
	w := &failingWriter{remaining: 8}
	err := freshet.Demo(w)
	if !errors.Is(err, errWriterClosed) {
		t.Errorf("want errWriterClosed, got %v", err)
	}
	if w.remaining != 0 {
		t.Errorf("synchronous consumers should write until the writer fails, %d writes left", w.remaining)
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && runtime.NumGoroutine() > before {
		time.Sleep(10 * time.Millisecond)
	}
	if got := runtime.NumGoroutine(); got > before {
		t.Errorf("%d goroutines still running after Demo returned, started with %d", got, before)
	}
}

type MockEventBridgeClient struct {
	Input []*eventbridge.PutEventsInput
}

func (c *MockEventBridgeClient) PutEvents(ctx context.Context, input *eventbridge.PutEventsInput, opts ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	c.Input = append(c.Input, input)
	return &eventbridge.PutEventsOutput{}, nil
}

func TestTransport_EventBridgeTransport_RealClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	cfg := aws.NewConfig()
	eb := eventbridge.NewFromConfig(*cfg)
	_ = freshet.NewConsumer(freshet.WithEventBridgeTransport(eb))
}

func TestTransport_EventBridgeTransport(t *testing.T) {
	t.Parallel()
	client := &MockEventBridgeClient{}
	c := freshet.NewConsumer(freshet.WithEventBridgeTransport(client))
	err := c.Consume(freshet.NewSequence(freshet.WithBound(2)), "p1")
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	want := []*eventbridge.PutEventsInput{
		helperPutEventsInput(`{"Label":"p1","Order":0,"Value":0,"Start":true}`),
		helperPutEventsInput(`{"Label":"p1","Order":1,"Value":0,"Start":false}`),
		helperPutEventsInput(`{"Label":"p1","Order":2,"Value":1,"Start":false}`),
	}
	got := client.Input
	ignore := cmpopts.IgnoreUnexported(types.PutEventsRequestEntry{}, eventbridge.PutEventsInput{})
	if !cmp.Equal(got, want, ignore) {
		t.Error(cmp.Diff(want, got, ignore))
	}
}

func helperPutEventsInput(detail string) *eventbridge.PutEventsInput {
	return &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Detail:     aws.String(detail),
				DetailType: aws.String("freshet"),
				Source:     aws.String("freshet"),
			},
		},
	}
}
