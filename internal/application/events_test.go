package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/domain"
)

func TestBus_PublishRunsHandlersInOrder(t *testing.T) {
	bus := NewBus(nil)
	var calls []string

	bus.Subscribe(domain.EventReconstructionCompleted, func(_ context.Context, _ domain.Event) error {
		calls = append(calls, "first")
		return nil
	})
	bus.Subscribe(domain.EventReconstructionCompleted, func(_ context.Context, _ domain.Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.Subscribe(domain.EventExtractionCompleted, func(_ context.Context, _ domain.Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := bus.Publish(context.Background(), domain.NewEvent(domain.EventReconstructionCompleted, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_PublishContinuesAfterFailure(t *testing.T) {
	bus := NewBus(nil)
	boom := errors.New("boom")
	ran := 0

	bus.Subscribe(domain.EventCoherenceFailed, func(_ context.Context, _ domain.Event) error {
		ran++
		return boom
	})
	bus.Subscribe(domain.EventCoherenceFailed, func(_ context.Context, _ domain.Event) error {
		ran++
		return errors.New("second failure")
	})

	err := bus.Publish(context.Background(), domain.NewEvent(domain.EventCoherenceFailed, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, ran)
}

func TestBus_PublishWithoutHandlers(t *testing.T) {
	bus := NewBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), domain.NewEvent(domain.EventExtractionFailed, nil)))
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(nil)
	var seen []domain.EventType
	bus.SubscribeAll(domain.WorkflowEventTypes(), func(_ context.Context, e domain.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	for _, typ := range domain.WorkflowEventTypes() {
		require.NoError(t, bus.Publish(context.Background(), domain.NewEvent(typ, nil)))
	}
	assert.Equal(t, domain.WorkflowEventTypes(), seen)
}

func TestBus_PayloadIsDelivered(t *testing.T) {
	bus := NewBus(nil)
	var got domain.ReconstructionOutcome
	bus.Subscribe(domain.EventReconstructionCompleted, func(_ context.Context, e domain.Event) error {
		got = e.Payload.(domain.ReconstructionOutcome)
		return nil
	})

	want := domain.ReconstructionOutcome{
		FilePath: "/g/game/tl/french/script.rpy",
		Result:   &domain.ReconstructionResult{SavePath: "/g/game/tl/french/script_translated.rpy"},
	}
	require.NoError(t, bus.Publish(context.Background(), domain.NewEvent(domain.EventReconstructionCompleted, want)))
	assert.Equal(t, want, got)
}
