package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trellisflow/trellis-go/client/internal/gather"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// seqPool implements Gatherer and runs jobs inline, one at a time, stopping
// at the first error like the real pool.
type seqPool struct{}

func (seqPool) Run(ctx context.Context, jobs []gather.Job) error {
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// failPool implements Gatherer and always fails Run.
type failPool struct{}

func (failPool) Run(context.Context, []gather.Job) error { return fmt.Errorf("run failed") }
