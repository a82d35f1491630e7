// Package snapshot assembles an immutable repository snapshot: metadata,
// full file listing, a bounded set of fetched file contents and derived
// structure. Consumers treat a built snapshot as read-only ground truth;
// it is only ever replaced wholesale by a new build.
package snapshot

import (
	"repocopilot/internal/structure"
)

// Meta is the repository metadata carried by a snapshot. DefaultBranch is
// the branch the snapshot was actually built from.
type Meta struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	Stars         int
	DefaultBranch string
	Language      string
	Topics        []string
}

// Snapshot is the fully pre-loaded repository bundle built once per
// repository reference per conversation. Analysis routines read from it and
// never call the remote API.
type Snapshot struct {
	Meta Meta

	// Files is the complete listing of file paths (metadata only).
	Files []string
	// FileContents maps path to fetched text, a strict subset of Files:
	// at most the selector cap entries, each at most MaxFileBytes.
	FileContents map[string]string

	Languages       map[string]int
	Framework       string
	EntryPoints     []string
	DependencyFiles []string
	Tree            *structure.TreeNode

	TotalFiles int
	TotalDirs  int

	// PrimaryLanguage is Meta.Language lowercased, "" when undetected.
	PrimaryLanguage string

	// OriginalURL is the URL string the snapshot was built from.
	OriginalURL string
	// RequestedPath is set when the URL pointed at a single file. Its
	// content may still be absent when the file exceeded the size cap.
	RequestedPath string
}

// Content returns the fetched text for path. The second return is false
// when the file was not selected, failed to fetch, or was oversized.
func (s *Snapshot) Content(path string) (string, bool) {
	c, ok := s.FileContents[path]
	return c, ok
}

// Loaded reports how many file contents the snapshot carries.
func (s *Snapshot) Loaded() int { return len(s.FileContents) }
