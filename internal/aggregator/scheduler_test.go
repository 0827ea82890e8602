package aggregator_test

import (
	"context"
	"testing"
	"time"

	"hknews/internal/aggregator"

	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnce(t *testing.T) {
	ts := serveRSS(t, rssDocument(
		[3]string{"Only story", "https://example.com/only", "Mon, 03 Mar 2025 08:00:00 GMT"},
	))

	agg := aggregator.New([]aggregator.Group{
		{Name: "g", SourceType: "global", Timeout: 5 * time.Second,
			Feeds: []aggregator.Feed{{Name: "Feed", URL: ts.URL}}},
	})
	sched := aggregator.NewScheduler(agg, aggregator.SchedulerConfig{RunOnce: true})

	err := sched.Start(context.Background())
	require.NoError(t, err)
	require.Len(t, agg.Snapshot().Records, 1)
}

func TestSchedulerStopUnblocksStart(t *testing.T) {
	agg := aggregator.New(nil)
	sched := aggregator.NewScheduler(agg, aggregator.SchedulerConfig{Interval: time.Hour})

	done := make(chan error, 1)
	go func() {
		done <- sched.Start(context.Background())
	}()

	// The startup refresh runs before the ticker loop; give it a moment.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()
	sched.Stop() // idempotent

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	// The startup refresh ran even with no groups configured.
	require.False(t, agg.Snapshot().Empty())
}

func TestSchedulerContextCancel(t *testing.T) {
	agg := aggregator.New(nil)
	sched := aggregator.NewScheduler(agg, aggregator.SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sched.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not observe cancellation")
	}
}
