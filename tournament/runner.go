package tournament

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// WorkerRunner executes one job and returns its game results. The
// production implementation spawns a resource-isolated worker process;
// tests substitute an in-process runner.
type WorkerRunner interface {
	Run(ctx context.Context, job Job) ([]GameResult, error)
}

// ProcessRunner runs each job in a child process: this binary's hidden
// worker subcommand, job on stdin, results on stdout. Workers are placed
// in their own process group so canceling the coordinator reclaims them
// instead of leaving orphans.
type ProcessRunner struct {
	Binary    string
	WorkerArg string
}

// NewProcessRunner targets the currently running executable.
func NewProcessRunner() ProcessRunner {
	bin, err := os.Executable()
	if err != nil {
		bin = os.Args[0]
	}
	return ProcessRunner{Binary: bin, WorkerArg: "worker"}
}

func (r ProcessRunner) Run(ctx context.Context, job Job) ([]GameResult, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.Binary, r.WorkerArg)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Run(); err != nil {
		// A memory-cap breach or panic lands here: only this strategy's
		// round is lost.
		return nil, fmt.Errorf("worker for %q failed: %w: %s",
			job.Strategy, err, strings.TrimSpace(stderr.String()))
	}

	var results []GameResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		return nil, fmt.Errorf("failed to decode worker output for %q: %w", job.Strategy, err)
	}
	return results, nil
}

// InProcessRunner executes jobs in the coordinator process, without OS
// isolation. Per-game deadlines still apply. Used by tests and by
// single-process debugging runs.
type InProcessRunner struct{}

func (InProcessRunner) Run(_ context.Context, job Job) ([]GameResult, error) {
	return ExecuteJob(job)
}
