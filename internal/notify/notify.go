package notify

import (
	"context"
	"strings"

	"github.com/spigell/resume-scorer/internal/scoring"
	"go.uber.org/zap"
)

// DefaultThreshold is the lowest total score that earns an interview invitation.
const DefaultThreshold = 70

type Outcome string

const (
	Invite Outcome = "invite"
	Reject Outcome = "reject"
)

// Decision is what to tell a candidate after scoring.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Total    int     `json:"total_score"`
	Feedback string  `json:"feedback,omitempty"`
}

// Decide invites candidates whose total reaches threshold. Rejections carry
// the feedback. A non-positive threshold means DefaultThreshold.
func Decide(result scoring.EvaluationResult, threshold int) Decision {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	if result.TotalScore >= threshold {
		return Decision{Outcome: Invite, Total: result.TotalScore}
	}

	return Decision{Outcome: Reject, Total: result.TotalScore, Feedback: result.Feedback}
}

// Candidate identifies who receives a notice.
type Candidate struct {
	Name  string
	Email string
}

// Notifier delivers a decision to a candidate.
type Notifier interface {
	Notify(ctx context.Context, candidate Candidate, jobTitle string, decision Decision) error
}

// LogNotifier records notices in the log instead of sending them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, candidate Candidate, jobTitle string, decision Decision) error {
	fields := []zap.Field{
		zap.String("candidate", strings.TrimSpace(candidate.Name)),
		zap.String("email", strings.TrimSpace(candidate.Email)),
		zap.String("job_title", jobTitle),
		zap.String("outcome", string(decision.Outcome)),
		zap.Int("total_score", decision.Total),
	}

	if decision.Outcome == Invite {
		n.logger.Info("interview invitation", fields...)
		return nil
	}

	n.logger.Info("application feedback", append(fields, zap.String("feedback", decision.Feedback))...)
	return nil
}
