package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/trellisflow/trellis-go/client/internal/gather"
	"github.com/trellisflow/trellis-go/client/internal/types"
)

// Example flows live in a fixed public repository. Both the listing and the
// per-file downloads talk to GitHub directly, never to the backend.
const (
	exampleRepoOwner = "trellisflow"
	exampleRepoName  = "trellis-examples"
	exampleRepoPath  = "examples"
)

// contentsEntry is the slice of a GitHub contents listing item we care about.
type contentsEntry struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// repoInfo is the slice of a GitHub repository object we care about.
type repoInfo struct {
	StargazersCount int `json:"stargazers_count"`
}

// RepoStars returns the star count for owner/repo, or nil when the count
// cannot be determined for any reason. Star counts are decoration, so every
// failure is logged and swallowed rather than surfaced to the caller.
func RepoStars(ctx context.Context, httpClient *http.Client, githubURL, owner, repo string) *int {
	if err := ctx.Err(); err != nil {
		log.Debug().Err(err).Msg("repo stars unavailable")
		return nil
	}
	url := fmt.Sprintf("%s/repos/%s/%s", githubURL, owner, repo)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Debug().Err(err).Msg("repo stars unavailable")
		return nil
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Msg("repo stars unavailable")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("repo stars unavailable")
		return nil
	}
	var info repoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Debug().Err(err).Msg("repo stars unavailable")
		return nil
	}
	return &info.StargazersCount
}

// ListExamples fetches the example flows from the public repository. It makes
// one listing request, then downloads every .json entry through the pool.
// Results keep the listing order no matter which download finishes first, and
// one failed download fails the whole call.
func ListExamples(ctx context.Context, pool Gatherer, httpClient *http.Client, githubURL string) ([]types.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listing, err := listExampleContents(ctx, httpClient, githubURL)
	if err != nil {
		return nil, err
	}

	var files []contentsEntry
	for _, entry := range listing {
		if strings.HasSuffix(entry.Name, ".json") {
			files = append(files, entry)
		}
	}

	flows := make([]types.Flow, len(files))
	jobs := make([]gather.Job, len(files))
	for i := range files {
		slot := i
		entry := files[i]
		jobs[i] = gather.JobFunc(func(jctx context.Context) error {
			flow, err := fetchExampleFlow(jctx, httpClient, entry.DownloadURL)
			if err != nil {
				return err
			}
			flows[slot] = *flow
			return nil
		})
	}
	if err := pool.Run(ctx, jobs); err != nil {
		return nil, err
	}
	return flows, nil
}

func listExampleContents(ctx context.Context, httpClient *http.Client, githubURL string) ([]contentsEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", githubURL, exampleRepoOwner, exampleRepoName, exampleRepoPath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("list examples", resp.StatusCode)
	}
	var listing []contentsEntry
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func fetchExampleFlow(ctx context.Context, httpClient *http.Client, downloadURL string) (*types.Flow, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("fetch example", resp.StatusCode)
	}
	var flow types.Flow
	if err := json.NewDecoder(resp.Body).Decode(&flow); err != nil {
		return nil, err
	}
	return &flow, nil
}
