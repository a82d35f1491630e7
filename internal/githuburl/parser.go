// Package githuburl classifies raw GitHub URL strings into canonical
// repository references. It performs no network access.
package githuburl

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind describes what a parsed URL points at.
type Kind int

const (
	// KindRoot is the repository root (bare owner/repo or tree-without-path).
	KindRoot Kind = iota
	// KindFile is a single file (blob or raw URL).
	KindFile
	// KindDir is a directory (tree URL with a path).
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "repository"
	}
}

// RepoRef is the canonical (owner, repo, branch, path, kind) tuple derived
// from a URL. Branch is empty when the URL did not name one; it must be
// resolved to the repository's real default branch once metadata is known.
type RepoRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
	Kind   Kind

	// OriginalURL is the raw string the reference was parsed from.
	OriginalURL string
	// RawURL is the direct raw-content locator for file references.
	RawURL string
}

// SameRepo reports whether both references name the same repository.
// Identity is owner+repo equality, case-sensitive; branch and path
// differences do not create a new repository identity.
func (r *RepoRef) SameRepo(o *RepoRef) bool {
	if r == nil || o == nil {
		return false
	}
	return r.Owner == o.Owner && r.Repo == o.Repo
}

// BranchResolved reports whether the reference carries an explicit branch.
func (r *RepoRef) BranchResolved() bool { return r.Branch != "" }

// FullName returns "owner/repo".
func (r *RepoRef) FullName() string { return r.Owner + "/" + r.Repo }

var (
	reProtocol = regexp.MustCompile(`^https?://`)

	reBlob     = regexp.MustCompile(`^github\.com/([^/]+)/([^/]+)/blob/([^/]+)/(.+)$`)
	reTreePath = regexp.MustCompile(`^github\.com/([^/]+)/([^/]+)/tree/([^/]+)/(.+)$`)
	reTreeRoot = regexp.MustCompile(`^github\.com/([^/]+)/([^/]+)/tree/([^/]+)/?$`)
	reRepoRoot = regexp.MustCompile(`^github\.com/([^/]+)/([^/]+)/?$`)
	reRawFile  = regexp.MustCompile(`^raw\.githubusercontent\.com/([^/]+)/([^/]+)/([^/]+)/(.+)$`)

	reHasRepo  = regexp.MustCompile(`github\.com/[^/\s]+/[^/\s]+`)
	reRepoURLs = regexp.MustCompile(`https?://(?:www\.)?github\.com/[^\s)>\]"']+`)
)

// Parse classifies raw into a RepoRef, or returns nil when the string does
// not match any recognized GitHub URL shape. A nil result means "no
// repository reference found", not an error.
func Parse(raw string) *RepoRef {
	url := strings.TrimSpace(raw)
	clean := reProtocol.ReplaceAllString(url, "")

	if m := reBlob.FindStringSubmatch(clean); m != nil {
		return &RepoRef{
			Owner:       m[1],
			Repo:        m[2],
			Branch:      m[3],
			Path:        m[4],
			Kind:        KindFile,
			OriginalURL: url,
			RawURL:      fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", m[1], m[2], m[3], m[4]),
		}
	}
	if m := reTreePath.FindStringSubmatch(clean); m != nil {
		return &RepoRef{
			Owner:       m[1],
			Repo:        m[2],
			Branch:      m[3],
			Path:        m[4],
			Kind:        KindDir,
			OriginalURL: url,
		}
	}
	if m := reTreeRoot.FindStringSubmatch(clean); m != nil {
		return &RepoRef{
			Owner:       m[1],
			Repo:        m[2],
			Branch:      m[3],
			Kind:        KindRoot,
			OriginalURL: url,
		}
	}
	if m := reRepoRoot.FindStringSubmatch(clean); m != nil {
		// Branch deliberately left empty: resolved from repository
		// metadata, never assumed to be a fixed literal.
		return &RepoRef{
			Owner:       m[1],
			Repo:        m[2],
			Kind:        KindRoot,
			OriginalURL: url,
		}
	}
	if m := reRawFile.FindStringSubmatch(clean); m != nil {
		return &RepoRef{
			Owner:       m[1],
			Repo:        m[2],
			Branch:      m[3],
			Path:        m[4],
			Kind:        KindFile,
			OriginalURL: url,
			RawURL:      url,
		}
	}
	return nil
}

// ContainsRepoURL reports whether text mentions a GitHub repository URL.
func ContainsRepoURL(text string) bool {
	return reHasRepo.MatchString(text)
}

// ExtractURLs returns every GitHub repository URL substring found in text.
func ExtractURLs(text string) []string {
	return reRepoURLs.FindAllString(text, -1)
}

// ExtractRef parses the first GitHub URL found in free text. Returns nil
// when the text contains no parseable repository URL.
func ExtractRef(text string) *RepoRef {
	for _, url := range ExtractURLs(text) {
		if ref := Parse(url); ref != nil {
			return ref
		}
	}
	return nil
}
