package provider

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/cache"
	"github.com/Baev1/okto/internal/domain"
)

type fakeFetcher struct {
	launches []domain.LaunchInfo
	err      error
}

func (f *fakeFetcher) FetchUpcoming(ctx context.Context) ([]domain.LaunchInfo, error) {
	return f.launches, f.err
}

func TestPollOnce_ReplacesCache(t *testing.T) {
	var info domain.LaunchInfo
	info.ID = "abc"
	info.Name = "Falcon 9 | Starlink"

	f := &fakeFetcher{launches: []domain.LaunchInfo{info}}
	c := cache.New()
	NewPoller(f, c, zap.NewNop()).PollOnce(context.Background())

	snap, _, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 1 || snap[0].LLID != "abc" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPollOnce_FailureKeepsPreviousSnapshot(t *testing.T) {
	var info domain.LaunchInfo
	info.ID = "abc"

	f := &fakeFetcher{launches: []domain.LaunchInfo{info}}
	c := cache.New()
	p := NewPoller(f, c, zap.NewNop())
	p.PollOnce(context.Background())

	f.err = errors.New("provider down")
	p.PollOnce(context.Background())

	snap, gen, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 1 {
		t.Errorf("previous snapshot lost: %+v", snap)
	}
	if gen != 1 {
		t.Errorf("generation = %d, want 1 (no replace on failure)", gen)
	}
}
