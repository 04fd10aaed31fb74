package scoring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spigell/resume-scorer/internal/github"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

type enrichmentCollector interface {
	Collect(ctx context.Context, links []string) (*github.EnrichmentRecord, error)
}

type promptInvoker interface {
	Invoke(ctx context.Context, prompt string) string
}

// Scorer runs the full scoring pipeline for a resume and job description.
type Scorer struct {
	collector enrichmentCollector
	invoker   promptInvoker
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(collector enrichmentCollector, invoker promptInvoker, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		collector: collector,
		invoker:   invoker,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

// ScoreResume scores resumeText against jobDescription. Portfolio links
// enrich the prompt when they point to GitHub. It never fails: unexpected
// errors produce DefaultEvaluation.
func (s *Scorer) ScoreResume(ctx context.Context, resumeText, jobDescription string, links []string) (result EvaluationResult) {
	log := logger.WithRequestID(s.logger, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.Error("scoring pipeline panicked", zap.String("panic", fmt.Sprint(r)))
			result = DefaultEvaluation()
		}
	}()

	record := s.collect(ctx, log, links)

	prompt := BuildPrompt(jobDescription, resumeText, record)
	log.Debug("prompt built",
		zap.Int("profiles", len(record.Profiles)),
		zap.Int("projects", len(record.Projects)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	var raw string
	if s.invoker != nil {
		raw = s.invoker.Invoke(ctx, prompt)
	} else {
		raw = DefaultScoring(prompt)
	}
	log.Debug("model answered", zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)))

	scores := Reconcile(raw)
	result = newEvaluationResult(scores, jobDescription)

	log.Info("resume scored",
		zap.Int("parameter_score", result.ParameterScore),
		zap.Int("similarity_score", result.JobSimilarityScore),
		zap.Int("github_score", result.GitHubScore),
		zap.Int("total_score", result.TotalScore),
	)

	return result
}

func (s *Scorer) collect(ctx context.Context, log *zap.Logger, links []string) *github.EnrichmentRecord {
	if s.collector == nil || len(links) == 0 {
		return github.NewEnrichmentRecord()
	}

	record, err := s.collector.Collect(ctx, links)
	if err != nil {
		log.Warn("collect github portfolio", zap.Error(err))
		return github.NewEnrichmentRecord()
	}
	if record == nil {
		return github.NewEnrichmentRecord()
	}

	return record
}
