package client

import (
	"context"

	"github.com/trellisflow/trellis-go/client/internal/gather"
)

// gatherer abstracts the internal fan-out pool used by batch read APIs.
type gatherer interface {
	Run(ctx context.Context, jobs []gather.Job) error
}

// Note: all clients include a gather pool by default; Examples requires it.
