//go:build stress

package gather

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// RandomisedStress runs many batches with mixed sizes, worker counts and job
// durations to shake out slot races. Captures seed for reproducibility.
func TestRandomisedStress(t *testing.T) {
	t.Parallel()

	baseSeed := func() int64 {
		if s := os.Getenv("GATHER_STRESS_SEED"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				return v
			}
		}
		return time.Now().UnixNano()
	}()
	t.Logf("RandomisedStress seed=%d", baseSeed)
	rng := rand.New(rand.NewSource(baseSeed))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(128)
		p := New(Config{Workers: 1 + rng.Intn(16)})

		results := make([]int64, n)
		jobs := make([]Job, n)
		for i := 0; i < n; i++ {
			slot := i
			d := time.Duration(rng.Intn(200)) * time.Microsecond
			jobs[i] = JobFunc(func(ctx context.Context) error {
				time.Sleep(d)
				atomic.StoreInt64(&results[slot], int64(slot)+1)
				return nil
			})
		}

		if err := p.Run(context.Background(), jobs); err != nil {
			t.Fatalf("round %d: run error: %v", round, err)
		}
		for i := 0; i < n; i++ {
			if got := atomic.LoadInt64(&results[i]); got != int64(i)+1 {
				t.Fatalf("round %d: slot %d holds %d", round, i, got)
			}
		}
	}
}
