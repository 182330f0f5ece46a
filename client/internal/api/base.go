package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/trellisflow/trellis-go/client/internal/gather"
	"github.com/trellisflow/trellis-go/client/internal/types"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gatherer abstracts the concurrent fan-out pool used by ListExamples.
type Gatherer interface {
	Run(ctx context.Context, jobs []gather.Job) error
}

// statusErr builds the uniform unexpected-status error for op.
func statusErr(op string, code int) error {
	return &types.StatusError{Op: op, Status: code}
}

// logFail emits the diagnostic line required for flow and user operations,
// then returns err unchanged so the caller sees the original error.
func logFail(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("request failed")
	return err
}

// newFileUploadRequest builds a multipart/form-data POST carrying r under the
// "file" form field with the given filename.
func newFileUploadRequest(ctx context.Context, url, filename string, r io.Reader) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	return httpReq, nil
}
