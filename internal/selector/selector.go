// Package selector decides which repository files are worth fetching
// content for, under a hard cap. Pure functions, no I/O.
package selector

import (
	"path"
	"regexp"
	"strings"
)

// DefaultCap is the hard limit on files whose content is fetched per
// snapshot. It also bounds the worst-case concurrent fetch fan-out.
const DefaultCap = 20

// Entry points, dependency manifests and build descriptors are fetched
// before ordinary code files.
var priorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(main|app|index|server|manage)\.(py|js|ts)$`),
	regexp.MustCompile(`^requirements\.txt$`),
	regexp.MustCompile(`^package\.json$`),
	regexp.MustCompile(`^pyproject\.toml$`),
	regexp.MustCompile(`^Dockerfile$`),
	regexp.MustCompile(`^\.env\.example$`),
}

var codeExtensions = []string{
	".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".go", ".rs", ".rb",
}

// IsPriority reports whether the file name matches a canonical entry-point
// or manifest naming pattern.
func IsPriority(filePath string) bool {
	name := path.Base(filePath)
	for _, re := range priorityPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsCodeFile reports whether the path carries a recognized source extension.
func IsCodeFile(filePath string) bool {
	for _, ext := range codeExtensions {
		if strings.HasSuffix(filePath, ext) {
			return true
		}
	}
	return false
}

// Select produces the bounded, deterministically ordered subset of allPaths
// to fetch content for. Precedence: the explicitly requested path (when
// present and not already a priority match), then priority files in their
// original relative order, then ordinary code files. The result is
// duplicate-free and at most cap entries long; identical inputs always
// yield identical output.
func Select(allPaths []string, explicit string, cap int) []string {
	if cap <= 0 {
		cap = DefaultCap
	}

	var priority, code []string
	for _, p := range allPaths {
		switch {
		case IsPriority(p):
			priority = append(priority, p)
		case IsCodeFile(p):
			code = append(code, p)
		}
	}

	candidates := make([]string, 0, len(priority)+len(code)+1)
	if explicit != "" && !IsPriority(explicit) {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, priority...)
	candidates = append(candidates, code...)

	seen := make(map[string]struct{}, cap)
	out := make([]string, 0, cap)
	for _, p := range candidates {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) >= cap {
			break
		}
	}
	return out
}
