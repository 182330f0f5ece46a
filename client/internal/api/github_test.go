package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trellisflow/trellis-go/client/internal/gather"
	"github.com/trellisflow/trellis-go/client/internal/types"
)

const contentsPath = "/repos/trellisflow/trellis-examples/contents/examples"

// newExampleRepo stands up a stub GitHub serving a contents listing and the
// per-file downloads. names become the listing entries; .json entries resolve
// to flows named after the file.
func newExampleRepo(t *testing.T, names []string, fileDelay func(name string) time.Duration) (*httptest.Server, *int32) {
	t.Helper()
	var requests int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		switch {
		case r.URL.Path == contentsPath:
			listing := make([]map[string]string, 0, len(names))
			for _, n := range names {
				listing = append(listing, map[string]string{
					"name":         n,
					"download_url": srv.URL + "/download/" + n,
				})
			}
			_ = json.NewEncoder(w).Encode(listing)
		case strings.HasPrefix(r.URL.Path, "/download/"):
			name := strings.TrimPrefix(r.URL.Path, "/download/")
			if fileDelay != nil {
				time.Sleep(fileDelay(name))
			}
			_ = json.NewEncoder(w).Encode(types.Flow{Name: name})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

// Results must keep listing order even when earlier downloads finish last,
// and the request count must be exactly one listing plus one per .json file.
func TestListExamples_OrderedFanOut(t *testing.T) {
	t.Parallel()
	names := []string{"a.json", "b.json", "c.json", "d.json"}
	// Make the first file by far the slowest so completion order inverts.
	srv, requests := newExampleRepo(t, names, func(name string) time.Duration {
		if name == "a.json" {
			return 50 * time.Millisecond
		}
		return 0
	})

	pool := gather.New(gather.Config{Workers: 4})
	flows, err := ListExamples(context.Background(), pool, srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ListExamples error: %v", err)
	}
	if len(flows) != len(names) {
		t.Fatalf("got %d flows, want %d", len(flows), len(names))
	}
	for i, n := range names {
		if flows[i].Name != n {
			t.Fatalf("slot %d holds %q, want %q", i, flows[i].Name, n)
		}
	}
	if got := atomic.LoadInt32(requests); got != int32(1+len(names)) {
		t.Fatalf("saw %d requests, want %d", got, 1+len(names))
	}
}

// Non-.json entries appear in the listing but must never be downloaded.
func TestListExamples_FiltersNonJSON(t *testing.T) {
	t.Parallel()
	srv, requests := newExampleRepo(t, []string{"README.md", "x.json", ".gitignore", "y.json"}, nil)

	flows, err := ListExamples(context.Background(), seqPool{}, srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ListExamples error: %v", err)
	}
	if len(flows) != 2 || flows[0].Name != "x.json" || flows[1].Name != "y.json" {
		t.Fatalf("unexpected flows: %+v", flows)
	}
	if got := atomic.LoadInt32(requests); got != 3 {
		t.Fatalf("saw %d requests, want 3 (listing + 2 json)", got)
	}
}

func TestListExamples_EmptyDirectory(t *testing.T) {
	t.Parallel()
	srv, requests := newExampleRepo(t, nil, nil)

	flows, err := ListExamples(context.Background(), seqPool{}, srv.Client(), srv.URL)
	if err != nil || len(flows) != 0 {
		t.Fatalf("expected empty result: got=%+v err=%v", flows, err)
	}
	if got := atomic.LoadInt32(requests); got != 1 {
		t.Fatalf("saw %d requests, want just the listing", got)
	}
}

// One failed download must fail the whole call.
func TestListExamples_FailFast(t *testing.T) {
	t.Parallel()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == contentsPath:
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"name": "ok.json", "download_url": srv.URL + "/download/ok.json"},
				{"name": "broken.json", "download_url": srv.URL + "/download/broken.json"},
			})
		case r.URL.Path == "/download/ok.json":
			_ = json.NewEncoder(w).Encode(types.Flow{Name: "ok.json"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	pool := gather.New(gather.Config{Workers: 2})
	if _, err := ListExamples(context.Background(), pool, srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error when a download fails")
	}
}

func TestListExamples_ListingError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	if _, err := ListExamples(context.Background(), seqPool{}, srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for listing non-200")
	}
}

func TestListExamples_PoolFailure(t *testing.T) {
	t.Parallel()
	srv, _ := newExampleRepo(t, []string{"a.json"}, nil)
	if _, err := ListExamples(context.Background(), failPool{}, srv.Client(), srv.URL); err == nil {
		t.Fatal("expected pool failure to surface")
	}
}

func TestListExamples_CtxCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv, _ := newExampleRepo(t, []string{"a.json"}, nil)
	if _, err := ListExamples(ctx, seqPool{}, srv.Client(), srv.URL); err == nil {
		t.Fatal("expected context canceled for ListExamples")
	}
}

func TestRepoStars_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/trellisflow/trellis" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"stargazers_count": 1234, "name": "trellis"}`)
	}))
	defer srv.Close()
	got := RepoStars(context.Background(), srv.Client(), srv.URL, "trellisflow", "trellis")
	if got == nil || *got != 1234 {
		t.Fatalf("RepoStars unexpected: %v", got)
	}
}

// Every failure mode yields nil, never an error or a panic.
func TestRepoStars_NilOnFailure(t *testing.T) {
	t.Parallel()

	nonOK := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer nonOK.Close()
	if got := RepoStars(context.Background(), nonOK.Client(), nonOK.URL, "o", "r"); got != nil {
		t.Fatalf("expected nil on 404, got %v", got)
	}

	badBody := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{bad json"))
	}))
	defer badBody.Close()
	if got := RepoStars(context.Background(), badBody.Client(), badBody.URL, "o", "r"); got != nil {
		t.Fatalf("expected nil on decode error, got %v", got)
	}

	hc := &http.Client{Transport: &errRT{}}
	if got := RepoStars(context.Background(), hc, "http://example.com", "o", "r"); got != nil {
		t.Fatalf("expected nil on transport error, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := RepoStars(ctx, nonOK.Client(), nonOK.URL, "o", "r"); got != nil {
		t.Fatalf("expected nil on canceled context, got %v", got)
	}
}
