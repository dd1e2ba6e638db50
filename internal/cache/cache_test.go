package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baev1/okto/internal/domain"
)

func record(llid string) domain.LaunchRecord {
	return domain.LaunchRecord{LLID: llid, Name: llid, NET: time.Now().Add(time.Hour)}
}

func TestSnapshot_NotPrimed(t *testing.T) {
	c := New()
	_, _, err := c.Snapshot()
	require.True(t, errors.Is(err, ErrNotPrimed))
	assert.Equal(t, 0, c.Len())
}

func TestLen_TracksReplace(t *testing.T) {
	c := New()
	c.Replace([]domain.LaunchRecord{record("a"), record("b")})
	assert.Equal(t, 2, c.Len())
	c.Replace([]domain.LaunchRecord{record("a")})
	assert.Equal(t, 1, c.Len())
}

func TestReplace_AssignsStableIDs(t *testing.T) {
	c := New()
	c.Replace([]domain.LaunchRecord{record("a"), record("b")})

	snap, _, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, 2)
	idA, idB := snap[0].ID, snap[1].ID
	assert.NotEqual(t, idA, idB)

	// "a" survives the refresh and keeps its id; "c" is new.
	c.Replace([]domain.LaunchRecord{record("a"), record("c")})
	snap, _, err = c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, idA, snap[0].ID)
	assert.NotEqual(t, idA, snap[1].ID)
	assert.NotEqual(t, idB, snap[1].ID)
}

func TestReplace_RolledOffLaunchGetsFreshID(t *testing.T) {
	c := New()
	c.Replace([]domain.LaunchRecord{record("a")})
	snap, _, _ := c.Snapshot()
	oldID := snap[0].ID

	c.Replace([]domain.LaunchRecord{record("b")}) // "a" rolls off
	c.Replace([]domain.LaunchRecord{record("a")}) // and reappears

	snap, _, _ = c.Snapshot()
	require.Len(t, snap, 1)
	assert.NotEqual(t, oldID, snap[0].ID, "a reappearing launch is a new launch")
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	c := New()
	c.Replace([]domain.LaunchRecord{record("a")})

	snap, _, err := c.Snapshot()
	require.NoError(t, err)
	snap[0].Name = "mutated"

	again, _, _ := c.Snapshot()
	assert.Equal(t, "a", again[0].Name)
}

// Every snapshot must hold records of exactly one published generation,
// even while Replace runs concurrently.
func TestSnapshot_AtomicUnderConcurrentReplace(t *testing.T) {
	c := New()

	generation := func(n int) []domain.LaunchRecord {
		out := make([]domain.LaunchRecord, 5)
		for i := range out {
			out[i] = domain.LaunchRecord{
				LLID: fmt.Sprintf("launch-%d", i),
				Name: fmt.Sprintf("gen-%d", n),
			}
		}
		return out
	}
	c.Replace(generation(0))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := 1; n <= 500; n++ {
			c.Replace(generation(n))
		}
	}()

	// assert/require must not be used off the test goroutine; collect the
	// first violation instead.
	violations := make(chan string, 4)
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap, _, err := c.Snapshot()
				if err != nil {
					select {
					case violations <- err.Error():
					default:
					}
					return
				}
				for _, l := range snap {
					if l.Name != snap[0].Name {
						select {
						case violations <- fmt.Sprintf("snapshot mixes %s and %s", snap[0].Name, l.Name):
						default:
						}
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(violations)
	for v := range violations {
		t.Error(v)
	}
}
