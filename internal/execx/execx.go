// Package execx runs external tools. Commands are abstracted behind Runner so
// callers can be tested without the tools installed.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(file string) (string, error)
}

// OSRunner runs commands on the host.
type OSRunner struct {
	// Dir is the working directory of started commands. Empty means the current one.
	Dir string
	// Stream, when set, receives the command's stdout and stderr as they are written.
	Stream io.Writer
}

func (r OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stream != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Stream)
		cmd.Stderr = io.MultiWriter(&stderr, r.Stream)
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

func (OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Call is one recorded invocation of a Recorder.
type Call struct {
	Name string
	Args []string
}

func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Recorder is a scripted Runner. Outputs and errors are keyed by the full
// command line; tools listed in Paths are found by LookPath.
type Recorder struct {
	Outputs map[string][]byte
	Errors  map[string]error
	Paths   map[string]string
	Calls   []Call
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, call)
	if err, ok := r.Errors[call.String()]; ok {
		return nil, err
	}
	return r.Outputs[call.String()], nil
}

func (r *Recorder) LookPath(file string) (string, error) {
	if p, ok := r.Paths[file]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%s: %w", file, exec.ErrNotFound)
}
