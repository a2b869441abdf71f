// Package runner is the pipeline's only contact with the process layer. It
// spawns external commands (the julec compiler) with inherited stdio and
// blocks until they exit; all other side effects belong to the command.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/Panquesito7/julec-ir/internal/logfields"
)

// Runner executes one external command to completion.
type Runner interface {
	// Run spawns name with args in dir (empty dir means the current working
	// directory) and returns an error on spawn failure or non-zero exit.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands via os/exec with inherited stdout/stderr and
// environment. No timeout and no retry: a hung command hangs the run.
type ExecRunner struct{}

// New returns an ExecRunner.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Debug("Running external command", logfields.Command(name+" "+strings.Join(args, " ")), logfields.Path(dir))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s failed: %w", name, err)
	}
	return nil
}
