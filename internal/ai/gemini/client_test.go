package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-scorer/internal/ai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	config   *genai.GenerateContentConfig
	contents []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func TestGeneratorJoinsTextParts(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "IMPACT: 4"}, {Text: "  "}, {Text: "TOTAL: 73"}}},
		}, nil},
	}}

	g := &Generator{models: models, modelName: "gemini-pro", logger: zap.NewNop()}

	output, err := g.Generate(context.Background(), "score this", ai.DefaultOptions())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "IMPACT: 4\nTOTAL: 73" {
		t.Fatalf("unexpected output: %q", output)
	}

	if models.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", models.model)
	}

	if models.config == nil || models.config.Temperature == nil || *models.config.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %+v", models.config)
	}
	if models.config.TopK == nil || *models.config.TopK != 40 {
		t.Fatalf("expected top-k 40, got %+v", models.config.TopK)
	}

	if len(models.contents) != 1 || models.contents[0].Parts[0].Text != "score this" {
		t.Fatalf("unexpected contents: %+v", models.contents)
	}
}

func TestGeneratorWrapsAPIErrors(t *testing.T) {
	apiErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	g := &Generator{models: &fakeModels{err: apiErr}, modelName: "gemini-pro", logger: zap.NewNop()}

	_, err := g.Generate(context.Background(), "prompt", ai.DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}

	var target genai.APIError
	if !errors.As(err, &target) || target.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}

func TestGeneratorRejectsEmptyInputAndOutput(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{}}
	g := &Generator{models: models, modelName: "gemini-pro", logger: zap.NewNop()}

	if _, err := g.Generate(context.Background(), "   ", ai.DefaultOptions()); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if models.calls != 0 {
		t.Fatalf("expected no api call for empty prompt")
	}

	if _, err := g.Generate(context.Background(), "prompt", ai.DefaultOptions()); err == nil {
		t.Fatal("expected error for empty response")
	}
}
