package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/ai/ollama"
	"github.com/spigell/resume-scorer/internal/github"
	"github.com/spigell/resume-scorer/internal/jobs"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/secrets"
)

// newScorer wires the collector, the model provider and the invoker.
func newScorer(ctx context.Context, config *Config, log *zap.Logger) (*scoring.Scorer, error) {
	generator, controller, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(log, config.AI.Provider, generator.Model())
	invoker := scoring.NewInvoker(generator, controller, config.AI.InvokerConfig, aiLogger)

	collector, err := newCollector(config.GitHub, log)
	if err != nil {
		return nil, err
	}

	return scoring.NewScorer(collector, invoker, log, config.MaxLogLength), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, ai.ServiceController, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "ollama":
		oc := cfg.Ollama
		if oc == nil {
			oc = &OllamaConfig{}
		}

		genLogger := logger.WithCommonFields(log, provider, oc.Model)

		generator, err := ollama.NewGenerator(oc.Host, oc.Model, genLogger)
		if err != nil {
			return nil, nil, err
		}

		var controller ai.ServiceController = ai.NoopController{}
		if oc.ManageService {
			controller = ollama.NewProcessController(oc.Binary, genLogger)
		}

		return generator, controller, nil
	case "gemini":
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  gc.APIKeyFile,
			Env:   "GEMINI_API_KEY",
			Value: gc.APIKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, logger.WithCommonFields(log, provider, gc.Model))
		if err != nil {
			return nil, nil, err
		}

		return generator, ai.NoopController{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newCollector(cfg *GitHubConfig, log *zap.Logger) (*github.Collector, error) {
	if cfg == nil {
		cfg = &GitHubConfig{}
	}

	token, err := secrets.Load(secrets.Source{
		Name:  "github token",
		File:  cfg.TokenFile,
		Env:   "GITHUB_API_TOKEN",
		Value: cfg.Token,
	})
	switch {
	case errors.Is(err, secrets.ErrNotConfigured):
		log.Warn("github token is not configured, using unauthenticated requests",
			zap.String("hint", "set GITHUB_TOKEN_FILE, GITHUB_API_TOKEN or github.token-file"),
		)
	case err != nil:
		return nil, fmt.Errorf("loading github token: %w", err)
	}

	client := github.New(log, token)
	if cfg.APIURL != "" {
		client.APIURL = strings.TrimRight(cfg.APIURL, "/")
	}
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	return github.NewCollector(client, log), nil
}

func newCatalog(config *Config) (*jobs.Catalog, error) {
	catalog, err := jobs.NewCatalog(config.Jobs)
	if err != nil {
		return nil, fmt.Errorf("loading job postings: %w", err)
	}
	return catalog, nil
}

func threshold(config *Config) int {
	if config.Notify == nil {
		return 0
	}
	return config.Notify.Threshold
}
