package session

import (
	"context"
	"log"

	"repocopilot/internal/githuburl"
	"repocopilot/internal/snapshot"
)

// SnapshotBuilder is the subset of the snapshot builder the preprocessor
// consumes.
type SnapshotBuilder interface {
	BuildRef(ctx context.Context, ref *githuburl.RepoRef) (*snapshot.Snapshot, error)
}

// Preprocessor examines incoming user text for repository references and
// keeps the session's snapshot slot up to date. It runs before any
// analysis; analyzers read from the session and never fetch.
type Preprocessor struct {
	builder SnapshotBuilder
}

func NewPreprocessor(builder SnapshotBuilder) *Preprocessor {
	return &Preprocessor{builder: builder}
}

// Outcome reports what preprocessing did with a message.
type Outcome struct {
	Ref      *githuburl.RepoRef
	Decision Decision
	// Rebuilt is true when a fresh snapshot was attached to the session.
	Rebuilt bool
}

// Preprocess extracts the first repository URL from userText, runs the
// cache guard against the session's snapshot and rebuilds when needed.
// A failed build leaves the session untouched and returns the build error
// for user-facing mapping; an absent URL is not an error.
func (p *Preprocessor) Preprocess(ctx context.Context, sess *Session, userText string) (Outcome, error) {
	ref := githuburl.ExtractRef(userText)
	if ref == nil {
		return Outcome{Decision: DecisionKeep}, nil
	}

	verdict := Decide(sess.Snapshot(), ref)
	out := Outcome{Ref: ref, Decision: verdict.Decision}

	switch verdict.Decision {
	case DecisionKeep:
		return out, nil

	case DecisionUpdateFocus:
		if verdict.FocusPath != sess.Focus() {
			sess.SetFocus(verdict.FocusPath)
			if _, ok := sess.Snapshot().Content(verdict.FocusPath); !ok {
				log.Printf("session %s: focus moved to %s with no fetched content", sess.ID, verdict.FocusPath)
			}
		}
		return out, nil

	default: // DecisionRebuild
		snap, err := p.builder.BuildRef(ctx, ref)
		if err != nil {
			return out, err
		}
		sess.SetSnapshot(snap)
		out.Rebuilt = true
		log.Printf("session %s: loaded %s (%d files, %d fetched)", sess.ID, snap.Meta.FullName, snap.TotalFiles, snap.Loaded())
		return out, nil
	}
}
