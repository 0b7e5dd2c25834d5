// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxStderr bounds how much of a failed command's stderr is kept in the
// returned error.
const maxStderr = 512

// Cmd describes one external process invocation.
type Cmd struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
}

func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor runs external processes. The container runtimes and the
// host-installed conversion tools both go through it so tests can swap in
// a fake.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd Cmd) error
}

// OSExecutor is the production Executor backed by os/exec.
type OSExecutor struct{}

// LookPath resolves file on PATH.
func (OSExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run starts cmd and waits for it. Cancelling ctx kills the process. On
// failure the tail of stderr is folded into the error.
func (OSExecutor) Run(ctx context.Context, cmd Cmd) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	var stderr bytes.Buffer
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", cmd.Name, ctxErr)
		}
		if msg := tail(stderr.String(), maxStderr); msg != "" {
			return fmt.Errorf("%s: %w: %s", cmd.Name, err, msg)
		}
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// DefaultExecutor is the Executor used by DetectRuntime.
var DefaultExecutor Executor = OSExecutor{}
