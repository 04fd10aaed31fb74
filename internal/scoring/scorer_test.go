package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/resume-scorer/internal/github"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubCollector struct {
	record *github.EnrichmentRecord
	err    error
	links  []string
}

func (s *stubCollector) Collect(_ context.Context, links []string) (*github.EnrichmentRecord, error) {
	s.links = links
	return s.record, s.err
}

type stubInvoker struct {
	answer string
	prompt string
	panics bool
}

func (s *stubInvoker) Invoke(_ context.Context, prompt string) string {
	if s.panics {
		panic("invoker exploded")
	}
	s.prompt = prompt
	return s.answer
}

func TestScoreResume(t *testing.T) {
	collector := &stubCollector{record: github.NewEnrichmentRecord()}
	invoker := &stubInvoker{answer: validAnswer}

	result := NewScorer(collector, invoker, zap.NewNop(), 0).ScoreResume(context.Background(), "resume", backendJob, []string{"https://github.com/alice"})

	if result.ParameterScore != 16 || result.JobSimilarityScore != 42 || result.GitHubScore != 15 || result.TotalScore != 73 {
		t.Fatalf("unexpected scores %+v", result)
	}
	if result.Feedback != GenerateFeedback(73, 16, 42, 15, backendJob) {
		t.Fatalf("unexpected feedback %q", result.Feedback)
	}
	if len(collector.links) != 1 {
		t.Fatalf("links were not passed to the collector")
	}
	if !strings.Contains(invoker.prompt, backendJob) {
		t.Fatalf("prompt does not carry the job description")
	}
}

func TestScoreResumeRepairsModelAnswer(t *testing.T) {
	invoker := &stubInvoker{answer: "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nSIMILARITY: 42\nGITHUB: 15\nTOTAL: 90"}

	result := NewScorer(nil, invoker, nil, 0).ScoreResume(context.Background(), "resume", "job", nil)

	if result.TotalScore != 73 {
		t.Fatalf("expected repaired total 73, got %d", result.TotalScore)
	}
}

func TestScoreResumeIgnoresCollectorErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	collector := &stubCollector{err: errors.New("github api: connection reset")}
	invoker := &stubInvoker{answer: validAnswer}

	result := NewScorer(collector, invoker, zap.New(core), 0).ScoreResume(context.Background(), "resume", "job", []string{"https://github.com/alice"})

	if result.TotalScore != 73 {
		t.Fatalf("unexpected total %d", result.TotalScore)
	}
	if !strings.Contains(invoker.prompt, emptyPortfolio) {
		t.Fatalf("expected empty portfolio in prompt:\n%s", invoker.prompt)
	}

	entries := logs.FilterMessage("collect github portfolio").All()
	if len(entries) != 1 {
		t.Fatalf("expected collector warning, got %d entries", len(entries))
	}
	if _, ok := entries[0].ContextMap()["request_id"]; !ok {
		t.Fatalf("expected request_id field, got %v", entries[0].ContextMap())
	}
}

func TestScoreResumeRecoversFromPanics(t *testing.T) {
	result := NewScorer(nil, &stubInvoker{panics: true}, zap.NewNop(), 0).ScoreResume(context.Background(), "resume", "job", nil)

	if result != DefaultEvaluation() {
		t.Fatalf("expected default evaluation, got %+v", result)
	}
}

func TestScoreResumeWithoutInvokerUsesDefaultScoring(t *testing.T) {
	result := NewScorer(nil, nil, nil, 0).ScoreResume(context.Background(), "Golang engineer", "Golang", nil)

	if result.JobSimilarityScore != 60 || result.TotalScore != 91 {
		t.Fatalf("unexpected default scores %+v", result)
	}
}
