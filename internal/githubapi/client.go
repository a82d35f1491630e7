// Package githubapi is a thin request layer over the GitHub REST API for
// public repositories: metadata, recursive file tree, raw file content and
// language breakdown. It performs no selection logic and no retries.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	userAgent = "repocopilot/1.0"

	// maxBodyBytes bounds any single response body read.
	maxBodyBytes = 10 * 1024 * 1024
)

// RepoMeta is the repository metadata subset the pipeline needs.
type RepoMeta struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	Language      string
	DefaultBranch string
	Stars         int
	Forks         int
	Topics        []string
}

// RemoteFile is one entry of a repository tree listing. Produced only by
// this package; never mutated afterwards.
type RemoteFile struct {
	// Path is slash-separated, relative to the repository root.
	Path string
	// Name is the final path segment.
	Name string
	// Kind is "file" or "dir".
	Kind string
	Size int64
	SHA  string
}

const (
	KindFile = "file"
	KindDir  = "dir"
)

// Client calls the GitHub API. An empty token is valid: public repositories
// are served unauthenticated under the documented anonymous rate limit.
type Client struct {
	http    *http.Client
	apiBase string
	rawBase string
	token   string
}

// New creates a client against the public GitHub endpoints.
func New(token string) *Client {
	return NewWithBaseURLs(token, defaultAPIBase, defaultRawBase)
}

// NewWithBaseURLs creates a client with custom endpoints (for testing).
func NewWithBaseURLs(token, apiBase, rawBase string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		apiBase: strings.TrimRight(apiBase, "/"),
		rawBase: strings.TrimRight(rawBase, "/"),
		token:   token,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp, url)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s: %w", url, err)
	}
	return nil
}

// GetRepo fetches repository metadata.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (RepoMeta, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo)

	var data struct {
		FullName      string   `json:"full_name"`
		Description   string   `json:"description"`
		Language      string   `json:"language"`
		DefaultBranch string   `json:"default_branch"`
		Stars         int      `json:"stargazers_count"`
		Forks         int      `json:"forks_count"`
		Topics        []string `json:"topics"`
	}
	if err := c.getJSON(ctx, url, &data); err != nil {
		return RepoMeta{}, err
	}

	meta := RepoMeta{
		Owner:         owner,
		Name:          repo,
		FullName:      data.FullName,
		Description:   data.Description,
		Language:      data.Language,
		DefaultBranch: data.DefaultBranch,
		Stars:         data.Stars,
		Forks:         data.Forks,
		Topics:        data.Topics,
	}
	if meta.FullName == "" {
		meta.FullName = owner + "/" + repo
	}
	return meta, nil
}

// GetTree fetches the full recursive file listing at branch in one request.
// The repositories this system targets fit in a single tree response.
func (c *Client) GetTree(ctx context.Context, owner, repo, branch string) ([]RemoteFile, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiBase, owner, repo, branch)

	var data struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
			Size int64  `json:"size"`
			SHA  string `json:"sha"`
		} `json:"tree"`
	}
	if err := c.getJSON(ctx, url, &data); err != nil {
		return nil, err
	}

	files := make([]RemoteFile, 0, len(data.Tree))
	for _, item := range data.Tree {
		kind := KindDir
		if item.Type == "blob" {
			kind = KindFile
		}
		files = append(files, RemoteFile{
			Path: item.Path,
			Name: path.Base(item.Path),
			Kind: kind,
			Size: item.Size,
			SHA:  item.SHA,
		})
	}
	return files, nil
}

// GetFileContent fetches the raw bytes of exactly one file at branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, branch, filePath string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, owner, repo, branch, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyStatus(resp, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("github: read %s: %w", url, err)
	}
	return string(body), nil
}

// GetLanguages fetches byte counts per detected language.
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/languages", c.apiBase, owner, repo)

	langs := map[string]int{}
	if err := c.getJSON(ctx, url, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}
