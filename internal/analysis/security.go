package analysis

import (
	"fmt"
	"strings"

	"repocopilot/internal/selector"
	"repocopilot/internal/snapshot"
)

// Vulnerability is a security finding tied to a file.
type Vulnerability struct {
	ID             string
	Severity       string
	Type           string
	File           string
	Line           int
	Description    string
	Recommendation string
}

// SecurityReport covers every loaded code file in a snapshot.
type SecurityReport struct {
	Score           int
	Vulnerabilities []Vulnerability
	ScannedFiles    []string
	CriticalCount   int
	HighCount       int
}

// ScanSecurity runs the per-language analyzers over every loaded code file
// and keeps the security-relevant findings. The score starts at 100 and
// loses 25 per critical and 15 per high finding, floored at 0.
func ScanSecurity(snap *snapshot.Snapshot) (*SecurityReport, error) {
	if snap == nil || len(snap.FileContents) == 0 {
		return nil, ErrNothingLoaded
	}

	report := &SecurityReport{}
	for _, path := range snap.Files {
		content, ok := snap.Content(path)
		if !ok || !selector.IsCodeFile(path) {
			continue
		}

		var result *FileAnalysis
		switch LanguageForPath(path) {
		case "python":
			result = analyzePython(content)
		case "javascript", "typescript":
			result = analyzeJavaScript(content)
		default:
			continue
		}

		for _, issue := range result.Issues {
			if !securityRelevant(issue) {
				continue
			}
			report.Vulnerabilities = append(report.Vulnerabilities, Vulnerability{
				ID:             fmt.Sprintf("SEC-%03d", len(report.Vulnerabilities)+1),
				Severity:       issue.Severity,
				Type:           issue.Type,
				File:           path,
				Line:           issue.Line,
				Description:    issue.Message,
				Recommendation: issue.Recommendation,
			})
			switch issue.Severity {
			case SeverityCritical:
				report.CriticalCount++
			case SeverityHigh:
				report.HighCount++
			}
		}
		report.ScannedFiles = append(report.ScannedFiles, path)
	}

	report.Score = max(0, 100-report.CriticalCount*25-report.HighCount*15)
	return report, nil
}

func securityRelevant(issue Issue) bool {
	if issue.Severity == SeverityCritical || issue.Severity == SeverityHigh {
		return true
	}
	t := strings.ToLower(issue.Type)
	return strings.Contains(t, "injection") || strings.Contains(t, "secret") || strings.Contains(t, "security")
}
