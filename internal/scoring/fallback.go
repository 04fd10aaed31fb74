package scoring

import (
	"strings"
	"unicode/utf8"
)

const (
	fallbackSubScore   = 4
	fallbackGitHub     = 15
	fallbackSimilarity = 30
	minKeywordRunes    = 5
	keywordCutset      = ",.;:()[]{}"
)

// DefaultScoring produces a well-formed model answer without a model. The
// resume and job description are recovered from the prompt sections and
// compared by keyword overlap. The result depends only on prompt.
func DefaultScoring(prompt string) string {
	resumeText := section(prompt, resumeMarker, portfolioMarker)
	jobText := section(prompt, jobMarker, resumeMarker)

	record := ScoreRecord{
		Impact:     fallbackSubScore,
		Format:     fallbackSubScore,
		Language:   fallbackSubScore,
		Skills:     fallbackSubScore,
		Similarity: keywordSimilarity(resumeText, jobText),
		GitHub:     fallbackGitHub,
	}
	record.Total = record.Impact + record.Format + record.Language + record.Skills + record.Similarity + record.GitHub

	return record.String()
}

// keywordSimilarity scales the share of long job-description words found in
// the resume to the 0-60 range.
func keywordSimilarity(resumeText, jobText string) int {
	if resumeText == "" || jobText == "" {
		return fallbackSimilarity
	}

	resumeLower := strings.ToLower(resumeText)

	keywords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(jobText)) {
		if utf8.RuneCountInString(word) < minKeywordRunes {
			continue
		}
		keywords[strings.Trim(word, keywordCutset)] = struct{}{}
	}

	if len(keywords) == 0 {
		return fallbackSimilarity
	}

	matches := 0
	for keyword := range keywords {
		if strings.Contains(resumeLower, keyword) {
			matches++
		}
	}

	share := min(float64(matches)/float64(len(keywords)), 1.0)
	return int(share * MaxSimilarity)
}

// section returns the trimmed text between the first start marker and the
// next end marker, or the end of text.
func section(text, start, end string) string {
	idx := strings.Index(text, start)
	if idx < 0 {
		return ""
	}

	rest := text[idx+len(start):]
	if stop := strings.Index(rest, end); stop >= 0 {
		rest = rest[:stop]
	}

	return strings.TrimSpace(rest)
}
