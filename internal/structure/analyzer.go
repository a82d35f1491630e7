// Package structure derives framework, entry points, dependency manifests
// and a nested directory tree from a flat repository file listing. Pure
// functions, no I/O.
package structure

import (
	"strings"

	"repocopilot/internal/githubapi"
)

type frameworkSignature struct {
	name     string
	patterns []string
}

// Catalog order is the tie-break: the first framework reaching the match
// threshold wins.
var frameworkCatalog = []frameworkSignature{
	{"fastapi", []string{"main.py", "app.py", "requirements.txt"}},
	{"flask", []string{"app.py", "wsgi.py", "requirements.txt"}},
	{"django", []string{"manage.py", "settings.py", "urls.py"}},
	{"express", []string{"index.js", "app.js", "package.json"}},
	{"nextjs", []string{"next.config.js", "pages/", "app/"}},
	{"react", []string{"src/App.js", "src/App.tsx", "package.json"}},
	{"spring", []string{"pom.xml", "src/main/java/"}},
	{"rails", []string{"Gemfile", "config/routes.rb"}},
}

const frameworkThreshold = 2

var entryPointsByLanguage = map[string][]string{
	"python":     {"main.py", "app.py", "__main__.py", "run.py", "manage.py"},
	"javascript": {"index.js", "main.js", "app.js", "server.js"},
	"typescript": {"index.ts", "main.ts", "app.ts", "server.ts"},
}

var commonEntryNames = []string{"main.py", "app.py", "index.js", "main.js", "server.js"}

const maxEntryPoints = 5

type manifestTable struct {
	language string
	names    []string
}

var manifestTables = []manifestTable{
	{"python", []string{"requirements.txt", "setup.py", "pyproject.toml", "Pipfile"}},
	{"javascript", []string{"package.json", "yarn.lock", "package-lock.json"}},
	{"java", []string{"pom.xml", "build.gradle"}},
	{"ruby", []string{"Gemfile"}},
	{"rust", []string{"Cargo.toml"}},
	{"go", []string{"go.mod", "go.sum"}},
}

// DetectFramework returns the first catalog framework whose signature files
// reach the match threshold, falling back to language-specific heuristics,
// or "" when nothing matches.
func DetectFramework(files []githubapi.RemoteFile, primaryLanguage string) string {
	paths := make(map[string]struct{}, len(files))
	names := make(map[string]struct{}, len(files))
	for _, f := range files {
		paths[f.Path] = struct{}{}
		names[f.Name] = struct{}{}
	}

	for _, sig := range frameworkCatalog {
		matches := 0
		for _, p := range sig.patterns {
			if _, ok := paths[p]; ok {
				matches++
				continue
			}
			if _, ok := names[p]; ok {
				matches++
			}
		}
		if matches >= frameworkThreshold {
			return sig.name
		}
	}

	// Secondary heuristic: a Python dependency manifest plus a path that
	// mentions a known web framework by name.
	if _, ok := names["requirements.txt"]; ok && primaryLanguage == "Python" {
		for _, f := range files {
			if strings.Contains(strings.ToLower(f.Path), "fastapi") {
				return "fastapi"
			}
		}
		for _, f := range files {
			if strings.Contains(strings.ToLower(f.Path), "flask") {
				return "flask"
			}
		}
	}
	return ""
}

// FindEntryPoints returns up to 5 likely entry-point paths in discovery
// order: the primary language's canonical names first, then any file in the
// listing carrying a common cross-language entry name.
func FindEntryPoints(files []githubapi.RemoteFile, primaryLanguage string) []string {
	firstByName := make(map[string]string, len(files))
	for _, f := range files {
		if _, ok := firstByName[f.Name]; !ok {
			firstByName[f.Name] = f.Path
		}
	}

	var entries []string
	seen := map[string]struct{}{}
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		entries = append(entries, p)
	}

	for _, name := range entryPointsByLanguage[strings.ToLower(primaryLanguage)] {
		if p, ok := firstByName[name]; ok {
			add(p)
		}
	}
	for _, f := range files {
		for _, name := range commonEntryNames {
			if f.Name == name {
				add(f.Path)
				break
			}
		}
	}

	if len(entries) > maxEntryPoints {
		entries = entries[:maxEntryPoints]
	}
	return entries
}

// FindDependencyFiles scans file names against every per-language manifest
// table (independent of primary language) and returns the first matching
// path per manifest name, table order, no duplicates, no cap.
func FindDependencyFiles(files []githubapi.RemoteFile) []string {
	firstByName := make(map[string]string, len(files))
	for _, f := range files {
		if _, ok := firstByName[f.Name]; !ok {
			firstByName[f.Name] = f.Path
		}
	}

	var deps []string
	seen := map[string]struct{}{}
	for _, table := range manifestTables {
		for _, name := range table.names {
			p, ok := firstByName[name]
			if !ok {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			deps = append(deps, p)
		}
	}
	return deps
}

// Count returns the number of file and directory entries in the listing.
func Count(files []githubapi.RemoteFile) (totalFiles, totalDirs int) {
	for _, f := range files {
		if f.Kind == githubapi.KindDir {
			totalDirs++
		} else {
			totalFiles++
		}
	}
	return totalFiles, totalDirs
}
