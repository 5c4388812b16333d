package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var errQueueFull = errors.New("queue full")

// failingPool rejects every submission.
type failingPool struct{}

func (failingPool) Start(context.Context) {}
func (failingPool) SubmitCtx(context.Context, Job) error {
	return errQueueFull
}
func (failingPool) Close() {}

func TestIngestSubmitFailureSurfaces(t *testing.T) {
	ig := NewIngester(sourceFor())
	ig.InitialBatch = 5
	ig.BatchSize = 10
	ig.PoolFactory = func(workers, queue int) WorkerPoolInterface {
		return failingPool{}
	}

	_, err := ig.Ingest(context.Background(), "Fail", strings.Repeat("word ", 200), "en", "es")
	if !errors.Is(err, errQueueFull) {
		t.Fatalf("expected submit error to surface, got %v", err)
	}
}
