package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spigell/resume-scorer/internal/notify"
	"github.com/spigell/resume-scorer/internal/resume"
	"github.com/spigell/resume-scorer/internal/scoring"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// ScoreRequest scores raw resume text against a description or a posting.
type ScoreRequest struct {
	ResumeText     string   `json:"resume_text" binding:"required"`
	JobDescription string   `json:"job_description" binding:"required_without=JobID"`
	JobID          string   `json:"job_id"`
	Links          []string `json:"links"`
}

// multipartOverhead is the room left on top of MaxUploadBytes for the form
// fields and part headers of a submission.
const multipartOverhead = 64 << 10

type submissionForm struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
}

// SubmissionResponse reports the outcome of an uploaded application.
type SubmissionResponse struct {
	SubmissionID string                   `json:"submission_id"`
	JobID        string                   `json:"job_id"`
	Evaluation   scoring.EvaluationResult `json:"evaluation"`
	Decision     notify.Decision          `json:"decision"`
}

func abort(c *gin.Context, code int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(code, resp)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": s.catalog.Postings()})
}

func (s *Server) score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" {
		posting, err := s.catalog.FindByID(req.JobID)
		if err != nil {
			abort(c, http.StatusNotFound, "job posting not found", err)
			return
		}
		jobDescription = posting.Description()
	}

	links := req.Links
	if len(links) == 0 {
		links = resume.ExtractLinks(req.ResumeText)
	}

	result := s.scorer.ScoreResume(c.Request.Context(), req.ResumeText, jobDescription, links)
	c.JSON(http.StatusOK, result)
}

func (s *Server) submitResume(c *gin.Context) {
	posting, err := s.catalog.FindByID(c.Param("id"))
	if err != nil {
		abort(c, http.StatusNotFound, "job posting not found", err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+multipartOverhead)

	var form submissionForm
	if err := c.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, "resume file is too large", err)
			return
		}
		abort(c, http.StatusBadRequest, "invalid form", err)
		return
	}

	header, err := c.FormFile("resume")
	if err != nil {
		if isBodyTooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, "resume file is too large", err)
			return
		}
		abort(c, http.StatusBadRequest, "resume file is required", err)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		abort(c, http.StatusRequestEntityTooLarge, "resume file is too large", nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, "failed to read resume file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes))
	if err != nil {
		abort(c, http.StatusBadRequest, "failed to read resume file", err)
		return
	}

	text, links, err := resume.ExtractText(header.Filename, data)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, "could not extract resume text", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		abort(c, http.StatusUnprocessableEntity, "resume has no text", nil)
		return
	}

	submissionID := uuid.NewString()
	log := s.logger.With(zap.String("submission_id", submissionID), zap.String("job_id", posting.ID))

	result := s.scorer.ScoreResume(c.Request.Context(), text, posting.Description(), links)
	decision := notify.Decide(result, s.cfg.Threshold)

	candidate := notify.Candidate{Name: form.Name, Email: form.Email}
	if err := s.notifier.Notify(c.Request.Context(), candidate, posting.Title, decision); err != nil {
		log.Warn("notify candidate", zap.Error(err))
	}

	log.Info("resume submitted", zap.String("outcome", string(decision.Outcome)), zap.Int("total_score", result.TotalScore))

	c.JSON(http.StatusOK, SubmissionResponse{
		SubmissionID: submissionID,
		JobID:        posting.ID,
		Evaluation:   result,
		Decision:     decision,
	})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
