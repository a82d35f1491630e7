package session

import (
	"repocopilot/internal/githuburl"
	"repocopilot/internal/snapshot"
)

// Decision is the cache guard's verdict for an incoming reference.
type Decision int

const (
	// DecisionKeep leaves the existing state untouched.
	DecisionKeep Decision = iota
	// DecisionUpdateFocus keeps the snapshot and only moves the
	// focused-file marker; no new fetch occurs.
	DecisionUpdateFocus
	// DecisionRebuild discards the old snapshot and builds fresh.
	DecisionRebuild
)

func (d Decision) String() string {
	switch d {
	case DecisionUpdateFocus:
		return "update-focus"
	case DecisionRebuild:
		return "rebuild"
	default:
		return "keep"
	}
}

// Verdict pairs a decision with the focus path for DecisionUpdateFocus.
type Verdict struct {
	Decision  Decision
	FocusPath string
}

// Decide determines whether an existing snapshot can be reused for ref.
// Repository identity is owner+name equality only: a different file in the
// same repository never triggers a rebuild, because the snapshot's fetched
// content set already contains every file it will ever contain.
func Decide(existing *snapshot.Snapshot, ref *githuburl.RepoRef) Verdict {
	if ref == nil {
		return Verdict{Decision: DecisionKeep}
	}
	if existing == nil {
		return Verdict{Decision: DecisionRebuild}
	}
	if ref.Owner == existing.Meta.Owner && ref.Repo == existing.Meta.Name {
		if ref.Kind == githuburl.KindFile && ref.Path != "" {
			return Verdict{Decision: DecisionUpdateFocus, FocusPath: ref.Path}
		}
		return Verdict{Decision: DecisionKeep}
	}
	return Verdict{Decision: DecisionRebuild}
}
