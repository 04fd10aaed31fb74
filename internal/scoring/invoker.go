package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

// InvokerConfig bounds the model calls and the service recovery waits.
//
// A timed out first attempt is followed by a restart and one retry, so the
// longest Invoke can block is Timeout + StopGrace + StartupGrace +
// RetryTimeout. That is 42s with the defaults; see Budget.
type InvokerConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RetryTimeout time.Duration `mapstructure:"retry-timeout" validate:"gte=0"`
	StopGrace    time.Duration `mapstructure:"stop-grace" validate:"gte=0"`
	StartupGrace time.Duration `mapstructure:"startup-grace" validate:"gte=0"`
	Options      ai.Options    `mapstructure:"options"`
}

// DefaultInvokerConfig returns the stock timeouts and decoding options.
func DefaultInvokerConfig() InvokerConfig {
	return InvokerConfig{
		Timeout:      20 * time.Second,
		RetryTimeout: 15 * time.Second,
		StopGrace:    2 * time.Second,
		StartupGrace: 5 * time.Second,
		Options:      ai.DefaultOptions(),
	}
}

// Budget is the worst case wall-clock time of one Invoke before it falls back.
func (c InvokerConfig) Budget() time.Duration {
	return c.Timeout + c.StopGrace + c.StartupGrace + c.RetryTimeout
}

var (
	errAttemptTimeout = errors.New("model request timed out")
	errEmptyResponse  = errors.New("model returned an empty response")
)

type attemptResult struct {
	text string
	err  error
}

// Invoker calls the model once, recovers the model service on timeouts and
// connectivity failures, and falls back to DefaultScoring otherwise.
type Invoker struct {
	generator  ai.Generator
	controller ai.ServiceController
	cfg        InvokerConfig
	logger     *zap.Logger
}

func NewInvoker(generator ai.Generator, controller ai.ServiceController, cfg InvokerConfig, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if controller == nil {
		controller = ai.NoopController{}
	}

	defaults := DefaultInvokerConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryTimeout <= 0 {
		cfg.RetryTimeout = defaults.RetryTimeout
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = defaults.StopGrace
	}
	if cfg.StartupGrace <= 0 {
		cfg.StartupGrace = defaults.StartupGrace
	}
	if cfg.Options == (ai.Options{}) {
		cfg.Options = defaults.Options
	}

	return &Invoker{
		generator:  generator,
		controller: controller,
		cfg:        cfg,
		logger:     logger,
	}
}

// Invoke returns the raw model answer for prompt, or the fallback scoring
// text when the model cannot produce one. It never fails.
func (i *Invoker) Invoke(ctx context.Context, prompt string) string {
	if i.generator == nil {
		i.logger.Warn("no model configured, using default scoring")
		return DefaultScoring(prompt)
	}

	i.logger.Debug("invoking model",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Duration("budget", i.cfg.Budget()),
	)

	text, err := i.attempt(ctx, prompt, i.cfg.Timeout)
	switch {
	case err == nil:
		return text
	case errors.Is(err, errAttemptTimeout):
		i.logger.Warn("model request timed out", zap.Duration("timeout", i.cfg.Timeout))

		if !i.recoverService(ctx) {
			return i.fallback(prompt, "service recovery failed")
		}

		text, err = i.attempt(ctx, prompt, i.cfg.RetryTimeout)
		if err != nil {
			return i.fallback(prompt, fmt.Sprintf("retry after restart: %v", err))
		}

		i.logger.Info("retry after restart succeeded")
		return text
	case isConnectivityError(err):
		i.logger.Warn("model request failed", zap.Error(err))

		if !i.recoverService(ctx) {
			return i.fallback(prompt, "service recovery failed")
		}

		retryCtx, cancel := context.WithTimeout(ctx, i.cfg.RetryTimeout)
		defer cancel()

		text, err = i.generate(retryCtx, prompt)
		if err != nil {
			return i.fallback(prompt, fmt.Sprintf("retry after restart: %v", err))
		}

		i.logger.Info("retry after restart succeeded")
		return text
	default:
		return i.fallback(prompt, err.Error())
	}
}

// attempt runs one generation on its own goroutine. A result arriving after
// the deadline is dropped.
func (i *Invoker) attempt(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan attemptResult, 1)
	go func() {
		text, err := i.generate(attemptCtx, prompt)
		results <- attemptResult{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.text, res.err
	case <-timer.C:
		return "", errAttemptTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (i *Invoker) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model call panicked: %v", r)
		}
	}()

	text, err = i.generator.Generate(ctx, prompt, i.cfg.Options)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}

	return text, nil
}

// recoverService restarts the model service and reports whether it is
// running afterwards.
func (i *Invoker) recoverService(ctx context.Context) bool {
	i.logger.Info("attempting to restart model service")

	running, err := i.controller.IsRunning(ctx)
	if err != nil {
		i.logger.Warn("check model service", zap.Error(err))
		return false
	}

	if running {
		if err := i.controller.Stop(ctx); err != nil {
			i.logger.Warn("stop model service", zap.Error(err))
		}
		if err := utils.WaitFor(ctx, i.cfg.StopGrace); err != nil {
			return false
		}
	}

	if err := i.controller.Start(ctx); err != nil {
		i.logger.Warn("start model service", zap.Error(err))
		return false
	}

	if err := utils.WaitFor(ctx, i.cfg.StartupGrace); err != nil {
		return false
	}

	running, err = i.controller.IsRunning(ctx)
	if err != nil || !running {
		i.logger.Warn("model service did not come back", zap.Error(err))
		return false
	}

	i.logger.Info("model service restarted")
	return true
}

func (i *Invoker) fallback(prompt, reason string) string {
	i.logger.Warn("using default scoring", zap.String("reason", reason))
	return DefaultScoring(prompt)
}

func isConnectivityError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "failed")
}
