// Package dispatch runs matched gestures' shell commands, fire-and-forget,
// so a slow or hanging command never blocks the caller.
package dispatch

import (
	"os/exec"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// Executor runs dispatched commands as detached subprocesses, discarding
// their stdout/stderr per the command executor contract.
type Executor struct {
	log zerolog.Logger
}

// New builds an Executor that logs spawn failures as runtime warnings.
func New(log zerolog.Logger) *Executor {
	return &Executor{log: log}
}

// Dispatch implements engine.Dispatcher. It shell-splits command, then runs
// it in its own goroutine so a slow or hanging command never blocks the
// event loop.
func (e *Executor) Dispatch(command string) {
	args, err := shellwords.Parse(command)
	if err != nil {
		e.log.Warn().Str("component", "dispatch").Str("command", command).Err(err).
			Msg("failed to parse command")
		return
	}
	if len(args) == 0 {
		return
	}

	cmd := exec.Command(args[0], args[1:]...)
	go func() {
		if err := cmd.Run(); err != nil {
			e.log.Warn().Str("component", "dispatch").Str("command", command).Err(err).
				Msg("command failed")
		}
	}()
}
