package ollama

import (
	"context"
	"errors"
	"testing"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
)

type fakeClient struct {
	chunks []string
	err    error
	req    *api.GenerateRequest
}

func (f *fakeClient) Generate(_ context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error {
	f.req = req
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := fn(api.GenerateResponse{Response: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func TestGeneratorSendsDecodingOptions(t *testing.T) {
	client := &fakeClient{chunks: []string{"IMPACT: 4\n", "TOTAL: 73\n"}}
	g := &Generator{client: client, modelName: "openhermes", logger: zap.NewNop()}

	output, err := g.Generate(context.Background(), "score", ai.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "IMPACT: 4\nTOTAL: 73" {
		t.Fatalf("unexpected output: %q", output)
	}

	req := client.req
	if req.Model != "openhermes" || req.Prompt != "score" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Stream == nil || *req.Stream {
		t.Fatalf("expected non-streaming request")
	}
	if req.Options["temperature"] != float32(0.2) || req.Options["top_p"] != float32(0.9) || req.Options["top_k"] != 40 {
		t.Fatalf("unexpected options: %+v", req.Options)
	}
	if req.Options["num_thread"] != 4 {
		t.Fatalf("expected num_thread 4, got %v", req.Options["num_thread"])
	}
}

func TestGeneratorErrors(t *testing.T) {
	g := &Generator{client: &fakeClient{err: errors.New("connection refused")}, modelName: "openhermes", logger: zap.NewNop()}
	if _, err := g.Generate(context.Background(), "score", ai.DefaultOptions()); err == nil {
		t.Fatal("expected error from client")
	}

	g = &Generator{client: &fakeClient{chunks: []string{"  "}}, modelName: "openhermes", logger: zap.NewNop()}
	if _, err := g.Generate(context.Background(), "score", ai.DefaultOptions()); err == nil {
		t.Fatal("expected error for empty response")
	}

	var nilGenerator *Generator
	if _, err := nilGenerator.Generate(context.Background(), "score", ai.DefaultOptions()); err == nil {
		t.Fatal("expected error for nil generator")
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	g, err := NewGenerator("http://127.0.0.1:11434", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %s", g.Model())
	}

	if _, err := NewGenerator("://bad", "m", nil); err == nil {
		t.Fatal("expected error for invalid host")
	}
}
