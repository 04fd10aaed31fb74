package ai

import (
	"context"
	"errors"
)

// Options are the decoding parameters sent with every generation call.
type Options struct {
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP        float32 `mapstructure:"top-p" validate:"gte=0,lte=1"`
	TopK        int     `mapstructure:"top-k" validate:"gte=0"`
	// NumThread is honoured by local providers only.
	NumThread int `mapstructure:"num-thread" validate:"gte=0"`
}

// DefaultOptions biases the model toward conservative, repeatable scores.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.2,
		TopP:        0.9,
		TopK:        40,
		NumThread:   4,
	}
}

// Generator produces a raw text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Model() string
}

// ServiceController manages the process serving a Generator.
type ServiceController interface {
	IsRunning(ctx context.Context) (bool, error)
	Stop(ctx context.Context) error
	Start(ctx context.Context) error
}

// ErrNotManaged is returned by controllers that cannot manage their service.
var ErrNotManaged = errors.New("model service is not managed locally")

// NoopController is used for hosted providers whose service cannot be restarted.
type NoopController struct{}

func (NoopController) IsRunning(context.Context) (bool, error) { return false, ErrNotManaged }

func (NoopController) Stop(context.Context) error { return ErrNotManaged }

func (NoopController) Start(context.Context) error { return ErrNotManaged }
