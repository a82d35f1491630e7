// Package analysis contains pure analyzers over already-fetched repository
// content. Everything here reads from a snapshot; nothing reaches the
// network.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"repocopilot/internal/snapshot"
)

// ErrNothingLoaded is returned when an analyzer is invoked with no snapshot
// or with a snapshot holding no fetched content. Callers map it to a
// "provide a GitHub URL" prompt.
var ErrNothingLoaded = errors.New("no repository content loaded")

// ErrUnsupportedLanguage is returned for files outside the supported
// language set (Python, JavaScript, TypeScript).
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Issue severities, ordered from worst to informational.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

// Issue is a single finding at a specific line.
type Issue struct {
	Type           string
	Severity       string
	Line           int
	Message        string
	Recommendation string
}

// Metrics are coarse per-file counts.
type Metrics struct {
	Lines     int
	Functions int
	Classes   int
	Imports   int
}

// FileAnalysis is the result of analyzing one file.
type FileAnalysis struct {
	Path       string
	Language   string
	Issues     []Issue
	Metrics    Metrics
	Complexity float64
}

// Focus narrows which issues an analysis reports.
type Focus string

const (
	FocusAll         Focus = "all"
	FocusSecurity    Focus = "security"
	FocusQuality     Focus = "quality"
	FocusPerformance Focus = "performance"
)

var languageByExt = map[string]string{
	".py":  "python",
	".js":  "javascript",
	".ts":  "typescript",
	".jsx": "javascript",
	".tsx": "typescript",
}

// LanguageForPath maps a file path to its analysis language tag, "" when
// the extension is not supported.
func LanguageForPath(path string) string {
	for ext, lang := range languageByExt {
		if strings.HasSuffix(path, ext) {
			return lang
		}
	}
	return ""
}

// ResolveFile picks the file an analyzer should operate on, in priority
// order: the explicit argument, the snapshot's requested path, the session
// focus, then the first file with fetched content. Candidates without
// fetched content are skipped.
func ResolveFile(snap *snapshot.Snapshot, explicit, focus string) (string, string, error) {
	if snap == nil || len(snap.FileContents) == 0 {
		return "", "", ErrNothingLoaded
	}
	for _, candidate := range []string{explicit, snap.RequestedPath, focus} {
		if candidate == "" {
			continue
		}
		if content, ok := snap.Content(candidate); ok {
			return candidate, content, nil
		}
	}
	for _, path := range snap.Files {
		if content, ok := snap.Content(path); ok {
			return path, content, nil
		}
	}
	return "", "", ErrNothingLoaded
}

// AnalyzeFile resolves a file, dispatches on its language and applies the
// focus filter to the findings.
func AnalyzeFile(snap *snapshot.Snapshot, explicit, focus string, filter Focus) (*FileAnalysis, error) {
	path, content, err := ResolveFile(snap, explicit, focus)
	if err != nil {
		return nil, err
	}

	var result *FileAnalysis
	switch lang := LanguageForPath(path); lang {
	case "python":
		result = analyzePython(content)
	case "javascript", "typescript":
		result = analyzeJavaScript(content)
		result.Language = lang
	default:
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedLanguage)
	}
	result.Path = path
	result.Issues = filterIssues(result.Issues, filter)
	return result, nil
}

func filterIssues(issues []Issue, filter Focus) []Issue {
	switch filter {
	case FocusSecurity:
		return keepIssues(issues, func(i Issue) bool {
			return i.Severity == SeverityCritical || i.Severity == SeverityHigh
		})
	case FocusQuality:
		return keepIssues(issues, func(i Issue) bool {
			return i.Type != "TODO" && i.Type != "Debug Statement"
		})
	case FocusPerformance:
		return keepIssues(issues, func(i Issue) bool {
			return strings.Contains(i.Type, "N+1") || strings.Contains(strings.ToLower(i.Message), "loop")
		})
	default:
		return issues
	}
}

func keepIssues(issues []Issue, keep func(Issue) bool) []Issue {
	out := issues[:0:0]
	for _, issue := range issues {
		if keep(issue) {
			out = append(out, issue)
		}
	}
	return out
}

var (
	rePyFunc    = regexp.MustCompile(`(?m)^\s*def\s+\w+`)
	rePyClass   = regexp.MustCompile(`(?m)^\s*class\s+\w+`)
	rePyImport  = regexp.MustCompile(`(?m)^(?:import|from)\s+`)
	rePyForLoop = regexp.MustCompile(`for\s+\w+\s+in\s+\w+:`)
	rePyDBCall  = regexp.MustCompile(`\.(get|query|filter|find|fetch|select)\s*\(`)
	reSecret    = regexp.MustCompile(`(?i)(password|secret|api_key|token|auth)\s*=\s*['"][^'"]{8,}['"]`)
	reSQLInject = regexp.MustCompile(`(?i)execute\s*\([^)]*[+%]|f['"].*SELECT.*\{`)
	reBareExc   = regexp.MustCompile(`^\s*except\s*:`)
	reGlobalMut = regexp.MustCompile(`^[A-Z_]+\s*=\s*\{\s*\}$|^[A-Z_]+\s*=\s*\[\s*\]$`)
	rePrint     = regexp.MustCompile(`^\s*print\s*\(`)

	pyComplexityKeywords = []*regexp.Regexp{
		regexp.MustCompile(`\bif\b`),
		regexp.MustCompile(`\bfor\b`),
		regexp.MustCompile(`\bwhile\b`),
		regexp.MustCompile(`\bexcept\b`),
		regexp.MustCompile(`\band\b|\bor\b`),
	}

	reJSFunc   = regexp.MustCompile(`function\s+\w+|const\s+\w+\s*=\s*(?:async\s*)?\(`)
	reJSClass  = regexp.MustCompile(`class\s+\w+`)
	reJSImport = regexp.MustCompile(`(?m)^import\s+`)
	reJSVar    = regexp.MustCompile(`^\s*var\s+`)
)

func analyzePython(code string) *FileAnalysis {
	lines := strings.Split(code, "\n")
	metrics := Metrics{
		Lines:     len(lines),
		Functions: len(rePyFunc.FindAllString(code, -1)),
		Classes:   len(rePyClass.FindAllString(code, -1)),
		Imports:   len(rePyImport.FindAllString(code, -1)),
	}

	var issues []Issue
	for idx, line := range lines {
		n := idx + 1

		// A database-style call within five lines of a loop header is
		// flagged at the call site, not the loop.
		if rePyForLoop.MatchString(line) {
			for j := n; j < n+5 && j <= len(lines); j++ {
				if rePyDBCall.MatchString(lines[j-1]) {
					issues = append(issues, Issue{
						Type: "N+1 Query", Severity: SeverityHigh, Line: j,
						Message:        "Potential N+1 query pattern: database call inside loop",
						Recommendation: "Use batch loading or eager loading",
					})
					break
				}
			}
		}

		if reSecret.MatchString(line) {
			issues = append(issues, Issue{
				Type: "Hardcoded Secret", Severity: SeverityCritical, Line: n,
				Message:        "Potential hardcoded secret detected",
				Recommendation: "Use environment variables",
			})
		}

		if reSQLInject.MatchString(line) {
			issues = append(issues, Issue{
				Type: "SQL Injection", Severity: SeverityCritical, Line: n,
				Message:        "Potential SQL injection vulnerability",
				Recommendation: "Use parameterized queries",
			})
		}

		if reBareExc.MatchString(line) {
			issues = append(issues, Issue{
				Type: "Bare Except", Severity: SeverityMedium, Line: n,
				Message:        "Bare except clause catches all exceptions",
				Recommendation: "Specify exception types explicitly",
			})
		}

		if reGlobalMut.MatchString(line) {
			issues = append(issues, Issue{
				Type: "Global Mutable State", Severity: SeverityMedium, Line: n,
				Message:        "Global mutable state can cause issues",
				Recommendation: "Use dependency injection or class encapsulation",
			})
		}

		if rePrint.MatchString(line) {
			issues = append(issues, Issue{
				Type: "Debug Statement", Severity: SeverityLow, Line: n,
				Message:        "Print statement found (should use logging)",
				Recommendation: "Use logging module instead",
			})
		}

		if strings.Contains(line, "TODO") || strings.Contains(line, "FIXME") {
			issues = append(issues, Issue{
				Type: "TODO", Severity: SeverityInfo, Line: n,
				Message:        strings.TrimSpace(line),
				Recommendation: "Consider addressing this TODO",
			})
		}
	}

	complexity := 1
	for _, kw := range pyComplexityKeywords {
		complexity += len(kw.FindAllString(code, -1))
	}
	normalized := math.Min(10, float64(complexity)/float64(max(1, metrics.Lines))*50)

	return &FileAnalysis{
		Language:   "python",
		Issues:     issues,
		Metrics:    metrics,
		Complexity: round1(normalized),
	}
}

func analyzeJavaScript(code string) *FileAnalysis {
	lines := strings.Split(code, "\n")
	metrics := Metrics{
		Lines:     len(lines),
		Functions: len(reJSFunc.FindAllString(code, -1)),
		Classes:   len(reJSClass.FindAllString(code, -1)),
		Imports:   len(reJSImport.FindAllString(code, -1)),
	}

	var issues []Issue
	for idx, line := range lines {
		n := idx + 1
		if strings.Contains(line, "console.log") {
			issues = append(issues, Issue{
				Type: "Debug Statement", Severity: SeverityLow, Line: n,
				Message:        "console.log found",
				Recommendation: "Remove or use proper logging",
			})
		}
		if reJSVar.MatchString(line) {
			issues = append(issues, Issue{
				Type: "Deprecated Syntax", Severity: SeverityLow, Line: n,
				Message:        "Using 'var' instead of 'let' or 'const'",
				Recommendation: "Use 'const' or 'let'",
			})
		}
		if strings.Contains(line, "eval(") {
			issues = append(issues, Issue{
				Type: "Security Risk", Severity: SeverityCritical, Line: n,
				Message:        "eval() is a security risk",
				Recommendation: "Avoid eval(), use safer alternatives",
			})
		}
	}

	complexity := math.Min(10, float64(len(issues)+metrics.Functions)/float64(max(1, metrics.Lines))*30)

	return &FileAnalysis{
		Language:   "javascript",
		Issues:     issues,
		Metrics:    metrics,
		Complexity: round1(complexity),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
