package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repocopilot/internal/githubapi"
)

// fakeClient serves canned responses and records the branches it was asked
// about.
type fakeClient struct {
	mu sync.Mutex

	meta      githubapi.RepoMeta
	metaErr   error
	tree      []githubapi.RemoteFile
	treeErr   error
	languages map[string]int

	contents    map[string]string
	contentErrs map[string]error

	treeBranches    []string
	contentBranches []string
	inFlight        int
	maxInFlight     int
	fetchDelay      time.Duration
}

func (f *fakeClient) GetRepo(_ context.Context, owner, repo string) (githubapi.RepoMeta, error) {
	if f.metaErr != nil {
		return githubapi.RepoMeta{}, f.metaErr
	}
	m := f.meta
	if m.Name == "" {
		m.Owner, m.Name, m.FullName = owner, repo, owner+"/"+repo
	}
	return m, nil
}

func (f *fakeClient) GetTree(_ context.Context, _, _, branch string) ([]githubapi.RemoteFile, error) {
	f.mu.Lock()
	f.treeBranches = append(f.treeBranches, branch)
	f.mu.Unlock()
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

func (f *fakeClient) GetFileContent(ctx context.Context, _, _, branch, path string) (string, error) {
	f.mu.Lock()
	f.contentBranches = append(f.contentBranches, branch)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.fetchDelay > 0 {
		select {
		case <-time.After(f.fetchDelay):
		case <-ctx.Done():
			f.mu.Lock()
			f.inFlight--
			f.mu.Unlock()
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.contentErrs[path]; ok {
		return "", err
	}
	if c, ok := f.contents[path]; ok {
		return c, nil
	}
	return "// " + path, nil
}

func (f *fakeClient) GetLanguages(_ context.Context, _, _ string) (map[string]int, error) {
	if f.languages != nil {
		return f.languages, nil
	}
	return map[string]int{"Python": 1000}, nil
}

func blobTree(paths ...string) []githubapi.RemoteFile {
	var files []githubapi.RemoteFile
	for _, p := range paths {
		name := p
		if i := strings.LastIndex(p, "/"); i >= 0 {
			name = p[i+1:]
		}
		files = append(files, githubapi.RemoteFile{Path: p, Name: name, Kind: githubapi.KindFile, Size: 100})
	}
	return files
}

func TestBuild_InvalidReference(t *testing.T) {
	b := NewBuilder(&fakeClient{})
	_, err := b.Build(context.Background(), "https://example.com/owner/repo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidReference))
}

func TestBuild_MetadataFailurePropagates(t *testing.T) {
	apiErr := &githubapi.APIError{Kind: githubapi.ErrRateLimited, StatusCode: 403, URL: "x"}
	b := NewBuilder(&fakeClient{metaErr: apiErr})

	_, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, githubapi.ErrRateLimited), "403 must surface as RateLimited")
	assert.False(t, errors.Is(err, githubapi.ErrRemote))
}

func TestBuild_TreeFailurePropagates(t *testing.T) {
	apiErr := &githubapi.APIError{Kind: githubapi.ErrNotFound, StatusCode: 404, URL: "x"}
	b := NewBuilder(&fakeClient{meta: githubapi.RepoMeta{Name: "widgets", DefaultBranch: "main"}, treeErr: apiErr})

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Nil(t, snap, "no partial snapshot on a failed build")
	assert.True(t, errors.Is(err, githubapi.ErrNotFound))
}

func TestBuild_DefaultBranchResolution(t *testing.T) {
	fake := &fakeClient{
		meta: githubapi.RepoMeta{Name: "widgets", DefaultBranch: "trunk", Language: "Python"},
		tree: blobTree("main.py"),
	}
	b := NewBuilder(fake)

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)

	assert.Equal(t, []string{"trunk"}, fake.treeBranches, "bare repo URL resolves branch from metadata")
	assert.Equal(t, "trunk", snap.Meta.DefaultBranch)
	for _, br := range fake.contentBranches {
		assert.Equal(t, "trunk", br)
	}
}

func TestBuild_ExplicitBranchAuthoritative(t *testing.T) {
	fake := &fakeClient{
		meta: githubapi.RepoMeta{Name: "widgets", DefaultBranch: "trunk", Language: "Python"},
		tree: blobTree("src/app.py"),
	}
	b := NewBuilder(fake)

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets/blob/dev/src/app.py")
	require.NoError(t, err)

	assert.Equal(t, []string{"dev"}, fake.treeBranches, "explicit branch text is trusted over metadata")
	assert.Equal(t, "src/app.py", snap.RequestedPath)
	_, ok := snap.Content("src/app.py")
	assert.True(t, ok, "explicitly requested file is fetched")
}

func TestBuild_PartialFetchFailuresAreIsolated(t *testing.T) {
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, fmt.Sprintf("pkg/f%02d.py", i))
	}
	contentErrs := map[string]error{}
	for i := 0; i < 5; i++ {
		p := fmt.Sprintf("pkg/f%02d.py", i)
		contentErrs[p] = &githubapi.APIError{Kind: githubapi.ErrNotFound, StatusCode: 404, URL: p}
	}
	fake := &fakeClient{
		meta:        githubapi.RepoMeta{Name: "widgets", DefaultBranch: "main", Language: "Python"},
		tree:        blobTree(paths...),
		contentErrs: contentErrs,
	}
	b := NewBuilder(fake)

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err, "individual fetch failures must not abort the batch")
	assert.Equal(t, 15, snap.Loaded())
	for p := range contentErrs {
		_, ok := snap.Content(p)
		assert.False(t, ok, p)
	}
}

func TestBuild_OversizedFileDropped(t *testing.T) {
	fake := &fakeClient{
		meta: githubapi.RepoMeta{Name: "widgets", DefaultBranch: "main", Language: "Python"},
		tree: blobTree("big.py", "small.py"),
		contents: map[string]string{
			"big.py":   strings.Repeat("x", 150_000),
			"small.py": "print('ok')",
		},
	}
	b := NewBuilder(fake)

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets/blob/main/big.py")
	require.NoError(t, err)

	_, ok := snap.Content("big.py")
	assert.False(t, ok, "oversized body is silently excluded")
	_, ok = snap.Content("small.py")
	assert.True(t, ok)
	// The focused path is still recorded even though its content is absent.
	assert.Equal(t, "big.py", snap.RequestedPath)
}

func TestBuild_ContentFetchFansOut(t *testing.T) {
	fake := &fakeClient{
		meta:       githubapi.RepoMeta{Name: "widgets", DefaultBranch: "main", Language: "Python"},
		tree:       blobTree("a.py", "b.py", "c.py", "d.py", "e.py"),
		fetchDelay: 50 * time.Millisecond,
	}
	b := NewBuilder(fake, WithFetchTimeout(2*time.Second))

	start := time.Now()
	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)

	assert.Equal(t, 5, snap.Loaded())
	assert.Greater(t, fake.maxInFlight, 1, "content fetches must not serialize")
	assert.Less(t, time.Since(start), 200*time.Millisecond, "batch time ≈ one fetch latency")
}

func TestBuild_HungFetchTimesOutWithoutBlockingSiblings(t *testing.T) {
	fake := &fakeClient{
		meta:       githubapi.RepoMeta{Name: "widgets", DefaultBranch: "main", Language: "Python"},
		tree:       blobTree("slow.py", "fast.py"),
		fetchDelay: 10 * time.Millisecond,
	}
	// Make one file hang well past the per-call timeout.
	fake.contents = map[string]string{"fast.py": "ok"}
	slow := &slowWrapper{fakeClient: fake, slowPath: "slow.py", delay: time.Second}

	b := NewBuilder(slow, WithFetchTimeout(100*time.Millisecond))
	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)

	_, ok := snap.Content("slow.py")
	assert.False(t, ok, "timed-out fetch is excluded, not fatal")
	_, ok = snap.Content("fast.py")
	assert.True(t, ok)
}

type slowWrapper struct {
	*fakeClient
	slowPath string
	delay    time.Duration
}

func (s *slowWrapper) GetFileContent(ctx context.Context, owner, repo, branch, path string) (string, error) {
	if path == s.slowPath {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.fakeClient.GetFileContent(ctx, owner, repo, branch, path)
}

func TestBuild_SnapshotShape(t *testing.T) {
	fake := &fakeClient{
		meta: githubapi.RepoMeta{
			Name: "widgets", FullName: "acme/widgets", Description: "demo",
			DefaultBranch: "main", Language: "Python", Stars: 7, Topics: []string{"web"},
		},
		tree: append(blobTree("manage.py", "mysite/settings.py", "mysite/urls.py", "docs/img.png"),
			githubapi.RemoteFile{Path: "mysite", Name: "mysite", Kind: githubapi.KindDir}),
		languages: map[string]int{"Python": 9000},
	}
	b := NewBuilder(fake)

	snap, err := b.Build(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", snap.Meta.FullName)
	assert.Equal(t, "django", snap.Framework)
	assert.Equal(t, "python", snap.PrimaryLanguage)
	assert.Equal(t, 4, snap.TotalFiles)
	assert.Equal(t, 1, snap.TotalDirs)
	assert.Equal(t, map[string]int{"Python": 9000}, snap.Languages)
	assert.Contains(t, snap.EntryPoints, "manage.py")
	assert.NotNil(t, snap.Tree)
	assert.Equal(t, "https://github.com/acme/widgets", snap.OriginalURL)
	assert.Empty(t, snap.RequestedPath)

	// FileContents keys are a strict subset of the listing.
	listed := map[string]bool{}
	for _, p := range snap.Files {
		listed[p] = true
	}
	for p := range snap.FileContents {
		assert.True(t, listed[p], p)
	}
}
