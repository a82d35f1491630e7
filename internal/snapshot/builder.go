package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"repocopilot/internal/githubapi"
	"repocopilot/internal/githuburl"
	"repocopilot/internal/selector"
	"repocopilot/internal/structure"
)

// ErrInvalidReference marks a build URL that names no recognizable
// repository.
var ErrInvalidReference = errors.New("snapshot: no repository reference found")

// MaxFileBytes is the per-file content size cap. Oversized bodies are
// silently dropped from the snapshot, never surfaced as errors.
const MaxFileBytes = 100_000

const defaultFetchTimeout = 20 * time.Second

// RemoteClient is the subset of the GitHub client the builder consumes.
type RemoteClient interface {
	GetRepo(ctx context.Context, owner, repo string) (githubapi.RepoMeta, error)
	GetTree(ctx context.Context, owner, repo, branch string) ([]githubapi.RemoteFile, error)
	GetFileContent(ctx context.Context, owner, repo, branch, path string) (string, error)
	GetLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Builder composes URL parsing, the remote client, the file selector and
// the structure analyzer into snapshots.
type Builder struct {
	client       RemoteClient
	maxFiles     int
	maxFileBytes int
	fetchTimeout time.Duration
}

// Option tweaks builder limits.
type Option func(*Builder)

// WithMaxFiles overrides the selector cap.
func WithMaxFiles(n int) Option { return func(b *Builder) { b.maxFiles = n } }

// WithMaxFileBytes overrides the per-file size cap.
func WithMaxFileBytes(n int) Option { return func(b *Builder) { b.maxFileBytes = n } }

// WithFetchTimeout overrides the per-file fetch timeout.
func WithFetchTimeout(d time.Duration) Option { return func(b *Builder) { b.fetchTimeout = d } }

func NewBuilder(client RemoteClient, opts ...Option) *Builder {
	b := &Builder{
		client:       client,
		maxFiles:     selector.DefaultCap,
		maxFileBytes: MaxFileBytes,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs a snapshot for url. Metadata, tree and language fetch
// failures propagate: no partial snapshot is ever returned. Individual
// file-content failures never propagate; the file is simply absent from
// FileContents.
func (b *Builder) Build(ctx context.Context, url string) (*Snapshot, error) {
	ref := githuburl.Parse(url)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReference, url)
	}
	return b.BuildRef(ctx, ref)
}

// BuildRef builds a snapshot from an already-parsed reference.
func (b *Builder) BuildRef(ctx context.Context, ref *githuburl.RepoRef) (*Snapshot, error) {
	meta, err := b.client.GetRepo(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, err
	}

	// An explicit branch in the URL is authoritative; only the bare
	// owner/repo shape defers to the repository's default branch.
	branch := ref.Branch
	if branch == "" {
		branch = meta.DefaultBranch
	}

	tree, err := b.client.GetTree(ctx, ref.Owner, ref.Repo, branch)
	if err != nil {
		return nil, err
	}
	languages, err := b.client.GetLanguages(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, err
	}

	var filePaths []string
	for _, f := range tree {
		if f.Kind == githubapi.KindFile {
			filePaths = append(filePaths, f.Path)
		}
	}
	totalFiles, totalDirs := structure.Count(tree)

	explicit := ""
	if ref.Kind == githuburl.KindFile {
		explicit = ref.Path
	}
	selected := selector.Select(filePaths, explicit, b.maxFiles)

	contents := b.fetchContents(ctx, ref.Owner, ref.Repo, branch, selected)

	return &Snapshot{
		Meta: Meta{
			Owner:         ref.Owner,
			Name:          meta.Name,
			FullName:      meta.FullName,
			Description:   meta.Description,
			Stars:         meta.Stars,
			DefaultBranch: branch,
			Language:      meta.Language,
			Topics:        meta.Topics,
		},
		Files:           filePaths,
		FileContents:    contents,
		Languages:       languages,
		Framework:       structure.DetectFramework(tree, meta.Language),
		EntryPoints:     structure.FindEntryPoints(tree, meta.Language),
		DependencyFiles: structure.FindDependencyFiles(tree),
		Tree:            structure.BuildTree(tree),
		TotalFiles:      totalFiles,
		TotalDirs:       totalDirs,
		PrimaryLanguage: strings.ToLower(meta.Language),
		OriginalURL:     ref.OriginalURL,
		RequestedPath:   explicit,
	}, nil
}

type fetchResult struct {
	path    string
	content string
	ok      bool
}

// fetchContents runs the scatter-gather content fetch: one goroutine per
// selected path, each writing into its own slot. A failed, timed-out or
// oversized fetch excludes that path only; siblings are unaffected.
func (b *Builder) fetchContents(ctx context.Context, owner, repo, branch string, selected []string) map[string]string {
	results := make([]fetchResult, len(selected))

	var wg sync.WaitGroup
	for i, p := range selected {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()

			fctx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
			defer cancel()

			content, err := b.client.GetFileContent(fctx, owner, repo, branch, p)
			if err != nil {
				log.Printf("snapshot: skipping %s: %v", p, err)
				return
			}
			if len(content) > b.maxFileBytes {
				log.Printf("snapshot: skipping %s: %d bytes exceeds cap", p, len(content))
				return
			}
			results[i] = fetchResult{path: p, content: content, ok: true}
		}(i, p)
	}
	wg.Wait()

	contents := make(map[string]string, len(selected))
	for _, r := range results {
		if r.ok {
			contents[r.path] = r.content
		}
	}
	return contents
}
