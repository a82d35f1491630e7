package copilot

import (
	"errors"

	"repocopilot/internal/analysis"
	"repocopilot/internal/githubapi"
	"repocopilot/internal/snapshot"
)

// userMessage maps pipeline errors to the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, snapshot.ErrInvalidReference):
		return "❌ No repository detected. Please supply a valid GitHub repository URL, " +
			"e.g. https://github.com/owner/repo"
	case errors.Is(err, githubapi.ErrNotFound):
		return "❌ Repository or file not found. Check the URL and branch and try again."
	case errors.Is(err, githubapi.ErrRateLimited):
		return "⏳ GitHub rate limit exhausted. Retry in a few minutes or configure a GITHUB_TOKEN."
	case errors.Is(err, githubapi.ErrRemote):
		return "⚠️ GitHub returned an unexpected error. Please try again."
	case errors.Is(err, analysis.ErrNothingLoaded):
		return helpText
	case errors.Is(err, analysis.ErrUnsupportedLanguage):
		return "⚠️ Analysis not supported for this file type. Supported: Python, JavaScript, TypeScript."
	case errors.Is(err, analysis.ErrNoTestTargets):
		return "⚠️ No functions or classes found in the resolved file to generate tests for."
	default:
		return "⚠️ Something went wrong while processing the repository. Please try again."
	}
}
