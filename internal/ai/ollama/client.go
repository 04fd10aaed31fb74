package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
)

const (
	defaultModel = "openhermes"
)

type generateClient interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// Generator talks to a local Ollama server.
type Generator struct {
	client    generateClient
	modelName string
	logger    *zap.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates a Generator for the server at host. An empty host
// falls back to OLLAMA_HOST and then to the Ollama default address.
func NewGenerator(host, model string, logger *zap.Logger) (*Generator, error) {
	var client *api.Client

	if host = strings.TrimSpace(host); host == "" {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
	} else {
		base, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
		}
		client = api.NewClient(base, http.DefaultClient)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{client: client, modelName: model, logger: logger}, nil
}

// Generate runs a single non-streaming completion.
func (g *Generator) Generate(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("ollama generator is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  g.modelName,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": opts.Temperature,
			"top_p":       opts.TopP,
			"top_k":       opts.TopK,
		},
	}
	if opts.NumThread > 0 {
		req.Options["num_thread"] = opts.NumThread
	}

	g.logger.Debug("ollama generate request", zap.Int("prompt_length", utf8.RuneCountInString(prompt)))

	var builder strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		builder.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("ollama returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
