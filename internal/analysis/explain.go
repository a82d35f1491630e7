package analysis

import (
	"regexp"
	"strings"

	"repocopilot/internal/snapshot"
)

// ImportRef is one import statement found in a file.
type ImportRef struct {
	From  string // module after "from", "" for plain imports
	Names string
}

// ClassRef is a class definition with its parent list.
type ClassRef struct {
	Name   string
	Parent string
}

// FuncRef is a function definition with its raw parameter list.
type FuncRef struct {
	Name   string
	Params string
}

// Explanation is a structural inventory of one file.
type Explanation struct {
	Path      string
	Language  string
	Lines     int
	Patterns  []string
	Imports   []ImportRef
	Classes   []ClassRef
	Functions []FuncRef
	Purpose   string
}

var (
	reImportLine = regexp.MustCompile(`(?m)^(?:from\s+(\S+)\s+)?import\s+(.+)$`)
	reDefColon   = regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+(\w+)\s*\(([^)]*)\):`)
	reClassDef   = regexp.MustCompile(`(?m)^\s*class\s+(\w+)(?:\(([^)]*)\))?:`)
)

type patternHint struct {
	name    string
	matches func(code string) bool
}

var patternHints = []patternHint{
	{"Web API routes", func(c string) bool {
		return strings.Contains(c, "@app.route") || strings.Contains(c, "@app.get") || strings.Contains(c, "@app.post")
	}},
	{"Celery tasks", func(c string) bool {
		return strings.Contains(c, "@celery") || strings.Contains(c, "@task")
	}},
	{"Django/ORM models", func(c string) bool { return strings.Contains(c, "class Meta:") }},
	{"Async programming", func(c string) bool { return strings.Contains(c, "async def") }},
	{"Test file", func(c string) bool {
		return strings.Contains(c, "pytest") || strings.Contains(c, "unittest")
	}},
	{"Dataclasses", func(c string) bool { return strings.Contains(c, "@dataclass") }},
}

// ExplainFile builds a structural inventory of the resolved file: imports,
// classes, functions, recognizable patterns and a coarse purpose guess.
func ExplainFile(snap *snapshot.Snapshot, explicit, focus string) (*Explanation, error) {
	resolved, code, err := ResolveFile(snap, explicit, focus)
	if err != nil {
		return nil, err
	}

	ex := &Explanation{
		Path:     resolved,
		Language: LanguageForPath(resolved),
		Lines:    len(strings.Split(code, "\n")),
	}
	if ex.Language == "" {
		ex.Language = "python"
	}

	for _, m := range reImportLine.FindAllStringSubmatch(code, -1) {
		ex.Imports = append(ex.Imports, ImportRef{From: m[1], Names: strings.TrimSpace(m[2])})
	}
	for _, m := range reClassDef.FindAllStringSubmatch(code, -1) {
		ex.Classes = append(ex.Classes, ClassRef{Name: m[1], Parent: strings.TrimSpace(m[2])})
	}
	for _, m := range reDefColon.FindAllStringSubmatch(code, -1) {
		ex.Functions = append(ex.Functions, FuncRef{Name: m[1], Params: strings.TrimSpace(m[2])})
	}

	for _, hint := range patternHints {
		if hint.matches(code) {
			ex.Patterns = append(ex.Patterns, hint.name)
		}
	}

	ex.Purpose = guessPurpose(resolved, code, ex)
	return ex, nil
}

func guessPurpose(path, code string, ex *Explanation) string {
	lower := strings.ToLower(code)
	switch {
	case strings.Contains(lower, "fastapi") || strings.Contains(code, "@app.get") || strings.Contains(code, "@app.post"):
		return "FastAPI application defining API endpoints"
	case strings.Contains(lower, "flask") || strings.Contains(code, "@app.route"):
		return "Flask application with route handlers"
	case strings.Contains(lower, "celery") || strings.Contains(code, "@task"):
		return "Celery background tasks for async processing"
	case strings.Contains(strings.ToLower(path), "test") || strings.Contains(code, "pytest"):
		return "Test file containing unit/integration tests"
	case len(ex.Classes) > 0 && len(ex.Functions) == 0:
		return "Data models or class definitions"
	case len(ex.Functions) > 0 && len(ex.Classes) == 0:
		return "Utility module with helper functions"
	default:
		return "General " + ex.Language + " module"
	}
}
