// Package copilot orchestrates the chat surface: it preprocesses incoming
// messages for repository URLs, routes the message to an analyzer by
// keyword intent and renders the result as markdown.
package copilot

import (
	"context"
	"log"
	"strings"

	"repocopilot/internal/analysis"
	"repocopilot/internal/session"
	"repocopilot/internal/snapshot"
)

// Intent labels for routed messages.
const (
	IntentSecurity  = "security"
	IntentTests     = "tests"
	IntentExplain   = "explain"
	IntentStructure = "structure"
	IntentAnalyze   = "analyze"
	IntentOverview  = "overview"
	IntentHelp      = "help"
)

// Service routes chat messages to the pure analyzers.
type Service struct {
	store *session.Store
	pre   *session.Preprocessor
}

func New(store *session.Store, builder session.SnapshotBuilder) *Service {
	return &Service{store: store, pre: session.NewPreprocessor(builder)}
}

// Reply is the rendered answer for one chat message.
type Reply struct {
	SessionID string `json:"session_id"`
	Intent    string `json:"intent"`
	Text      string `json:"text"`
}

// HandleMessage preprocesses the message, routes it by intent and renders
// an answer. Failures are mapped to user-facing text; the error return is
// reserved for conditions the caller cannot present to the user.
func (s *Service) HandleMessage(ctx context.Context, sessionID, message string) (*Reply, error) {
	sess := s.store.GetOrCreate(sessionID)
	reply := &Reply{SessionID: sess.ID}

	outcome, err := s.pre.Preprocess(ctx, sess, message)
	if err != nil {
		log.Printf("copilot: session %s preprocess failed: %v", sess.ID, err)
		reply.Intent = IntentHelp
		reply.Text = userMessage(err)
		sess.AddHistory(message, reply.Text)
		return reply, nil
	}

	reply.Intent = detectIntent(message)
	if reply.Intent == IntentOverview && !outcome.Rebuilt && sess.Snapshot() == nil {
		reply.Intent = IntentHelp
	}

	reply.Text = s.dispatch(sess, reply.Intent, message, outcome)
	sess.AddHistory(message, reply.Text)
	return reply, nil
}

func (s *Service) dispatch(sess *session.Session, intent, message string, outcome session.Outcome) string {
	snap := sess.Snapshot()

	switch intent {
	case IntentSecurity:
		report, err := analysis.ScanSecurity(snap)
		if err != nil {
			return userMessage(err)
		}
		sess.UpdateDerived(func(d *session.Derived) {
			d.SecurityScore = report.Score
			d.Vulnerabilities = d.Vulnerabilities[:0]
			for _, v := range report.Vulnerabilities {
				d.Vulnerabilities = append(d.Vulnerabilities, v.Type+": "+v.Description)
			}
		})
		return renderSecurity(snap, report)

	case IntentTests:
		plan, err := analysis.GenerateTests(snap, "", sess.Focus(), "pytest")
		if err != nil {
			return userMessage(err)
		}
		sess.UpdateDerived(func(d *session.Derived) {
			d.TestFramework = plan.Framework
		})
		return renderTestPlan(plan)

	case IntentExplain:
		ex, err := analysis.ExplainFile(snap, "", sess.Focus())
		if err != nil {
			return userMessage(err)
		}
		return renderExplanation(ex)

	case IntentStructure:
		if snap == nil {
			return userMessage(analysis.ErrNothingLoaded)
		}
		return renderStructure(snap)

	case IntentAnalyze:
		result, err := analysis.AnalyzeFile(snap, "", sess.Focus(), detectFocus(message))
		if err != nil {
			return userMessage(err)
		}
		sess.UpdateDerived(func(d *session.Derived) {
			d.ComplexityScore = result.Complexity
			d.CodeSmells = d.CodeSmells[:0]
			for _, issue := range result.Issues {
				d.CodeSmells = append(d.CodeSmells, issue.Type+": "+issue.Message)
			}
		})
		return renderAnalysis(result)

	case IntentOverview:
		return renderOverview(snap, outcome)

	default:
		return helpText
	}
}

// Structure returns the rendered repository structure for a session,
// outside the chat flow.
func (s *Service) Structure(sessionID string) (string, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok || sess.Snapshot() == nil {
		return "", analysis.ErrNothingLoaded
	}
	return renderStructure(sess.Snapshot()), nil
}

// State is a JSON-friendly view of a session for the state endpoint.
type State struct {
	SessionID  string          `json:"session_id"`
	Repository string          `json:"repository,omitempty"`
	Branch     string          `json:"branch,omitempty"`
	Focus      string          `json:"focus,omitempty"`
	Loaded     int             `json:"loaded_files"`
	TotalFiles int             `json:"total_files"`
	Derived    session.Derived `json:"derived"`
	Turns      int             `json:"turns"`
}

// SessionState reports the current state of a session.
func (s *Service) SessionState(sessionID string) (*State, bool) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	state := &State{
		SessionID: sess.ID,
		Focus:     sess.Focus(),
		Derived:   sess.Derived(),
		Turns:     len(sess.History()),
	}
	if snap := sess.Snapshot(); snap != nil {
		state.Repository = snap.Meta.FullName
		state.Branch = snap.Meta.DefaultBranch
		state.Loaded = snap.Loaded()
		state.TotalFiles = snap.TotalFiles
	}
	return state, true
}

var intentKeywords = []struct {
	intent string
	words  []string
}{
	{IntentSecurity, []string{"security", "vulnerab", "secure", "exploit", "cve"}},
	{IntentTests, []string{"test"}},
	{IntentStructure, []string{"structure", "tree", "layout", "organized", "organised", "folders"}},
	{IntentExplain, []string{"explain", "what does", "describe", "purpose", "understand"}},
	{IntentAnalyze, []string{"analyze", "analyse", "review", "bug", "issue", "quality", "smell", "complexity", "performance"}},
}

func detectIntent(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range intentKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				return entry.intent
			}
		}
	}
	return IntentOverview
}

func detectFocus(message string) analysis.Focus {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "security"):
		return analysis.FocusSecurity
	case strings.Contains(lower, "performance"):
		return analysis.FocusPerformance
	case strings.Contains(lower, "quality"):
		return analysis.FocusQuality
	default:
		return analysis.FocusAll
	}
}

func renderOverview(snap *snapshot.Snapshot, outcome session.Outcome) string {
	if snap == nil {
		return helpText
	}
	var b strings.Builder
	if outcome.Rebuilt {
		b.WriteString("Loaded **" + snap.Meta.FullName + "**.\n\n")
	}
	b.WriteString(renderStructure(snap))
	return b.String()
}
