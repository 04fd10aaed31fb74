package scoring

import "fmt"

// Score bounds.
const (
	MaxSubScore   = 5
	MaxParameter  = 20
	MaxSimilarity = 60
	MaxGitHub     = 20
	MaxTotal      = 100
)

// ScoreRecord is a reconciled set of category scores. Values produced by
// Reconcile are always in range and Total equals
// ParameterScore()+Similarity+GitHub.
type ScoreRecord struct {
	Impact     int
	Format     int
	Language   int
	Skills     int
	Similarity int
	GitHub     int
	Total      int
}

// ParameterScore is the capped sum of the four resume sub-scores.
func (r ScoreRecord) ParameterScore() int {
	return min(r.Impact+r.Format+r.Language+r.Skills, MaxParameter)
}

// String renders the record in the line format the model is asked to produce.
func (r ScoreRecord) String() string {
	return fmt.Sprintf("IMPACT: %d\nFORMAT: %d\nLANGUAGE: %d\nSKILLS: %d\nSIMILARITY: %d\nGITHUB: %d\nTOTAL: %d\n",
		r.Impact, r.Format, r.Language, r.Skills, r.Similarity, r.GitHub, r.Total)
}

// EvaluationResult is the outcome of scoring one resume.
type EvaluationResult struct {
	ParameterScore     int    `json:"Parameter Score"`
	JobSimilarityScore int    `json:"Job Similarity Score"`
	GitHubScore        int    `json:"GitHub Score"`
	TotalScore         int    `json:"Total Score"`
	Feedback           string `json:"Feedback"`
}

const errorFeedback = "We encountered an error while processing your resume. Please try again or contact support if the issue persists."

// DefaultEvaluation is returned when the pipeline fails unexpectedly.
func DefaultEvaluation() EvaluationResult {
	return EvaluationResult{
		ParameterScore:     16,
		JobSimilarityScore: 45,
		GitHubScore:        15,
		TotalScore:         76,
		Feedback:           errorFeedback,
	}
}

func newEvaluationResult(scores ScoreRecord, jobDescription string) EvaluationResult {
	result := EvaluationResult{
		ParameterScore:     scores.ParameterScore(),
		JobSimilarityScore: scores.Similarity,
		GitHubScore:        scores.GitHub,
		TotalScore:         scores.Total,
	}

	result.Feedback = GenerateFeedback(result.TotalScore, result.ParameterScore, result.JobSimilarityScore, result.GitHubScore, jobDescription)
	return result
}
