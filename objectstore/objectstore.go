// Package objectstore pushes spooled uploads to bucket storage by driving
// the gsutil command line tool.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/grabbiel/grabbieldb"
)

// DefaultCommand is the argv prefix used when CLI.Command is empty.
var DefaultCommand = []string{"sudo", "gsutil"}

// DefaultTimeout bounds a single gsutil invocation.
const DefaultTimeout = 300 * time.Second

// Runner executes argv without a shell and returns its standard output.
type Runner interface {
	Run(ctx context.Context, argv []string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}

	return out, nil
}

// CLI implements grabbieldb.ObjectStore on top of gsutil.
type CLI struct {
	Command []string
	Timeout time.Duration
	Runner  Runner
	Logger  *slog.Logger
}

var _ grabbieldb.ObjectStore = (*CLI)(nil)

// Upload copies localPath to remotePath, grants AllUsers read when public,
// and confirms the object with stat.
func (c *CLI) Upload(ctx context.Context, localPath, remotePath string, public bool) error {
	if _, err := c.run(ctx, "cp", localPath, remotePath); err != nil {
		return fmt.Errorf("%w: copy %s: %w", grabbieldb.ErrUploadFailed, remotePath, err)
	}

	if public {
		if _, err := c.run(ctx, "acl", "ch", "-u", "AllUsers:R", remotePath); err != nil {
			return fmt.Errorf("%w: make %s public: %w", grabbieldb.ErrUploadFailed, remotePath, err)
		}
	}

	out, err := c.run(ctx, "stat", remotePath)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", grabbieldb.ErrUploadFailed, remotePath, err)
	}

	if len(strings.TrimSpace(string(out))) == 0 {
		return fmt.Errorf("%w: stat %s: no such object", grabbieldb.ErrUploadFailed, remotePath)
	}

	return nil
}

// Delete removes remotePath.
func (c *CLI) Delete(ctx context.Context, remotePath string) error {
	if _, err := c.run(ctx, "rm", remotePath); err != nil {
		return fmt.Errorf("%w: %s: %w", grabbieldb.ErrDeleteFailed, remotePath, err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := c.Command
	if len(command) == 0 {
		command = DefaultCommand
	}

	argv := make([]string, 0, len(command)+len(args))
	argv = append(argv, command...)
	argv = append(argv, args...)

	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	start := time.Now()
	out, err := runner.Run(cctx, argv)
	c.logger().Debug("gsutil",
		"args", strings.Join(args, " "),
		"elapsed", time.Since(start),
		"error", err,
	)

	return out, err
}

func (c *CLI) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
