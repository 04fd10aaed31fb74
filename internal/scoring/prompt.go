package scoring

import (
	"encoding/json"
	"strings"

	_ "embed"

	"github.com/spigell/resume-scorer/internal/github"
)

//go:embed system.md
var systemInstruction string

//go:embed prompt.md
var promptTemplate string

// Section markers shared by the prompt template and the fallback scorer.
const (
	jobMarker       = "Job Description:"
	resumeMarker    = "Resume:"
	portfolioMarker = "GitHub Portfolio:"
)

const emptyPortfolio = `{
  "profiles": [],
  "projects": []
}`

// BuildPrompt composes the scoring prompt. It has no side effects.
func BuildPrompt(jobDescription, resumeText string, record *github.EnrichmentRecord) string {
	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription),
		"{{RESUME}}", strings.TrimSpace(resumeText),
		"{{GITHUB_PORTFOLIO}}", portfolioJSON(record),
	)

	return strings.TrimSpace(systemInstruction) + "\n\n" + strings.TrimSpace(replacer.Replace(promptTemplate)) + "\n"
}

func portfolioJSON(record *github.EnrichmentRecord) string {
	if record == nil {
		return emptyPortfolio
	}

	encoded, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return emptyPortfolio
	}

	return string(encoded)
}
