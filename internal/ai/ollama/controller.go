package ollama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
)

const defaultBinary = "ollama"

type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
	Start(name string, args ...string) error
}

// ProcessController manages a local `ollama serve` process through the
// process table.
type ProcessController struct {
	binary string
	runner commandRunner
	logger *zap.Logger
}

var _ ai.ServiceController = (*ProcessController)(nil)

func NewProcessController(binary string, logger *zap.Logger) *ProcessController {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = defaultBinary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessController{binary: binary, runner: execRunner{}, logger: logger}
}

// IsRunning looks for a serving process in `ps -ef`.
func (c *ProcessController) IsRunning(ctx context.Context) (bool, error) {
	out, err := c.runner.Output(ctx, "ps", "-ef")
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	return strings.Contains(string(out), c.binary+" serve"), nil
}

// Stop kills the "<binary> serve" processes that IsRunning looks for.
func (c *ProcessController) Stop(ctx context.Context) error {
	err := c.runner.Run(ctx, "pkill", "-f", c.binary+" serve")

	// pkill exits with 1 when nothing matched.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stop %s: %w", c.binary, err)
	}

	c.logger.Info("stopped model service", zap.String("binary", c.binary))
	return nil
}

// Start launches `<binary> serve` in the background.
func (c *ProcessController) Start(_ context.Context) error {
	if err := c.runner.Start(c.binary, "serve"); err != nil {
		return fmt.Errorf("start %s serve: %w", c.binary, err)
	}

	c.logger.Info("started model service", zap.String("binary", c.binary))
	return nil
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Start does not tie the process to a context: the server must outlive the
// request that restarted it.
func (execRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
