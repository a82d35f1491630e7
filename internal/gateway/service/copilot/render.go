package copilot

import (
	"fmt"
	"strings"

	"repocopilot/internal/analysis"
	"repocopilot/internal/snapshot"
)

const helpText = "No repository loaded. Provide a GitHub URL in your message, " +
	"e.g. https://github.com/owner/repo or https://github.com/owner/repo/blob/main/file.py"

const (
	maxRenderedIssues          = 15
	maxRenderedVulnerabilities = 10
	maxRenderedScannedFiles    = 10
)

func severityIcon(severity string) string {
	switch severity {
	case analysis.SeverityCritical:
		return "🔴"
	case analysis.SeverityHigh:
		return "🟠"
	case analysis.SeverityMedium:
		return "🟡"
	case analysis.SeverityLow:
		return "🔵"
	case analysis.SeverityInfo:
		return "ℹ️"
	default:
		return "⚪"
	}
}

func renderAnalysis(result *analysis.FileAnalysis) string {
	var critical, high, medium, low int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case analysis.SeverityCritical:
			critical++
		case analysis.SeverityHigh:
			high++
		case analysis.SeverityMedium:
			medium++
		case analysis.SeverityLow:
			low++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Code Analysis: %s\n\n", result.Path)
	fmt.Fprintf(&b, "### Metrics\n- **Lines:** %d | **Functions:** %d | **Classes:** %d | **Imports:** %d\n",
		result.Metrics.Lines, result.Metrics.Functions, result.Metrics.Classes, result.Metrics.Imports)
	fmt.Fprintf(&b, "- **Complexity Score:** %.1f/10\n\n", result.Complexity)
	fmt.Fprintf(&b, "### Issues (%d total)\n", len(result.Issues))
	fmt.Fprintf(&b, "🔴 Critical: %d  🟠 High: %d  🟡 Medium: %d  🔵 Low: %d\n\n", critical, high, medium, low)

	if len(result.Issues) == 0 {
		b.WriteString("✅ No issues found for this focus area.\n")
		return b.String()
	}

	b.WriteString("### Issue Details\n\n")
	for i, issue := range result.Issues {
		if i >= maxRenderedIssues {
			fmt.Fprintf(&b, "*... and %d more issues*\n", len(result.Issues)-maxRenderedIssues)
			break
		}
		fmt.Fprintf(&b, "**%s %s** (Line %d) [%s]\n- %s\n- 💡 %s\n\n",
			severityIcon(issue.Severity), issue.Type, issue.Line, issue.Severity,
			issue.Message, issue.Recommendation)
	}
	return b.String()
}

func renderSecurity(snap *snapshot.Snapshot, report *analysis.SecurityReport) string {
	scoreIcon := "🔴"
	switch {
	case report.Score >= 80:
		scoreIcon = "✅"
	case report.Score >= 50:
		scoreIcon = "⚠️"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Security Scan: %s\n\n", snap.Meta.FullName)
	fmt.Fprintf(&b, "**Security Score:** %d/100 %s\n", report.Score, scoreIcon)
	fmt.Fprintf(&b, "**Files Scanned:** %d (of %d total in repo)\n", len(report.ScannedFiles), snap.TotalFiles)
	fmt.Fprintf(&b, "**Vulnerabilities Found:** %d\n\n", len(report.Vulnerabilities))
	fmt.Fprintf(&b, "### Summary\n🔴 Critical: %d  🟠 High: %d\n\n", report.CriticalCount, report.HighCount)

	if len(report.Vulnerabilities) == 0 {
		b.WriteString("✅ No security vulnerabilities detected in loaded files.\n")
	} else {
		b.WriteString("### Vulnerabilities\n\n")
		for i, v := range report.Vulnerabilities {
			if i >= maxRenderedVulnerabilities {
				fmt.Fprintf(&b, "*... and %d more vulnerabilities*\n", len(report.Vulnerabilities)-maxRenderedVulnerabilities)
				break
			}
			fmt.Fprintf(&b, "**%s %s** [%s]\n- **File:** `%s` (line %d)\n- **Issue:** %s\n- **Fix:** %s\n\n",
				severityIcon(v.Severity), v.Type, v.Severity, v.File, v.Line, v.Description, v.Recommendation)
		}
	}

	b.WriteString("\n### Files Scanned\n")
	for i, f := range report.ScannedFiles {
		if i >= maxRenderedScannedFiles {
			fmt.Fprintf(&b, "- ... and %d more\n", len(report.ScannedFiles)-maxRenderedScannedFiles)
			break
		}
		fmt.Fprintf(&b, "- `%s`\n", f)
	}
	return b.String()
}

func renderStructure(snap *snapshot.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Repository Structure: %s\n\n", snap.Meta.FullName)
	fmt.Fprintf(&b, "**Language:** %s | **Framework:** %s\n",
		orDefault(snap.PrimaryLanguage, "Unknown"), orDefault(snap.Framework, "Not detected"))
	fmt.Fprintf(&b, "**Branch:** %s | **Stars:** ⭐ %d\n", snap.Meta.DefaultBranch, snap.Meta.Stars)
	fmt.Fprintf(&b, "```\n%s/\n%s```\n\n", snap.Meta.Name, analysis.RenderTree(snap.Tree, 0))
	fmt.Fprintf(&b, "**Total:** %d files, %d directories\n", snap.TotalFiles, snap.TotalDirs)
	fmt.Fprintf(&b, "**Entry Points:** %s\n", orDefault(strings.Join(snap.EntryPoints, ", "), "None detected"))
	fmt.Fprintf(&b, "**Dependency Files:** %s\n", orDefault(strings.Join(snap.DependencyFiles, ", "), "None found"))
	return b.String()
}

func renderTestPlan(plan *analysis.TestPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Generated Tests: %s\n\n", plan.Path)
	fmt.Fprintf(&b, "**Framework:** %s\n", plan.Framework)
	fmt.Fprintf(&b, "**Functions covered:** %d\n**Classes covered:** %d\n\n", len(plan.Functions), len(plan.Classes))
	fmt.Fprintf(&b, "```python\n%s\n```\n\n", plan.Source)
	fmt.Fprintf(&b, "### Next Steps\n1. Save as `test_%s.py`\n2. Update the import path at the top\n3. Fill in `# TODO` sections with real test values\n4. Run with: `pytest test_%s.py -v`\n",
		plan.Module, plan.Module)
	return b.String()
}

func renderExplanation(ex *analysis.Explanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Code Explanation: %s\n\n", ex.Path)
	fmt.Fprintf(&b, "### Overview\n- **Language:** %s\n- **Lines:** %d\n- **Patterns detected:** %s\n\n",
		ex.Language, ex.Lines, orDefault(strings.Join(ex.Patterns, ", "), "None"))

	fmt.Fprintf(&b, "### Imports (%d)\n", len(ex.Imports))
	for i, imp := range ex.Imports {
		if i >= 10 {
			fmt.Fprintf(&b, "- ... and %d more\n", len(ex.Imports)-10)
			break
		}
		if imp.From != "" {
			fmt.Fprintf(&b, "- From `%s`: %s\n", imp.From, imp.Names)
		} else {
			fmt.Fprintf(&b, "- `%s`\n", imp.Names)
		}
	}

	fmt.Fprintf(&b, "\n### Classes (%d)\n", len(ex.Classes))
	for i, cls := range ex.Classes {
		if i >= 5 {
			break
		}
		if cls.Parent != "" {
			fmt.Fprintf(&b, "- `%s` (extends `%s`)\n", cls.Name, cls.Parent)
		} else {
			fmt.Fprintf(&b, "- `%s`\n", cls.Name)
		}
	}

	fmt.Fprintf(&b, "\n### Functions (%d)\n", len(ex.Functions))
	for i, fn := range ex.Functions {
		if i >= 10 {
			fmt.Fprintf(&b, "- ... and %d more\n", len(ex.Functions)-10)
			break
		}
		params := strings.ReplaceAll(fn.Params, "\n", "")
		if len(params) > 60 {
			params = params[:60] + "..."
		}
		fmt.Fprintf(&b, "- `%s(%s)`\n", fn.Name, params)
	}

	fmt.Fprintf(&b, "\n### Purpose\n%s\n", ex.Purpose)
	return b.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
