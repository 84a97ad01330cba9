package docsync

import (
	"context"
	"fmt"
	"log/slog"

	gh "github.com/google/go-github/v80/github"
)

// Fetcher retrieves raw file content from the documentation source.
type Fetcher interface {
	FetchFile(ctx context.Context, path string) (string, error)
}

// GitHubFetcher fetches files from a GitHub repository via the contents API.
// Files under 1MB come back base64-encoded in the response, which covers
// every file in FilesToIndex.
type GitHubFetcher struct {
	client *gh.Client
	owner  string
	repo   string
	ref    string
	logger *slog.Logger
}

// NewGitHubFetcher creates a fetcher for owner/repo at the given ref.
// token may be empty; unauthenticated requests work but share GitHub's low
// anonymous rate limit.
func NewGitHubFetcher(owner, repo, ref, token string, logger *slog.Logger) *GitHubFetcher {
	if logger == nil {
		logger = slog.Default()
	}

	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &GitHubFetcher{
		client: client,
		owner:  owner,
		repo:   repo,
		ref:    ref,
		logger: logger,
	}
}

// FetchFile returns the decoded content of a repository file.
func (f *GitHubFetcher) FetchFile(ctx context.Context, path string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: f.ref}
	content, _, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", path, err)
	}
	if content == nil {
		return "", fmt.Errorf("fetching %s: path is a directory", path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	f.logger.Debug("fetched documentation file", "path", path, "bytes", len(decoded))
	return decoded, nil
}
