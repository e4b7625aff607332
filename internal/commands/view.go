package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasklist"
)

// openView loads the task list the way the interactive view does on start.
// Store failures are logged only with --debug; commands report them as
// error lines themselves.
func openView(ctx context.Context, cfg *config.Config, store service.Store, errOut io.Writer) (*tasklist.View, int) {
	logger := zerolog.Nop()
	if cfg.Debug {
		logger = log.Logger
	}
	v := tasklist.New(store, tasklist.WithLogger(logger))
	if err := v.Do(ctx, v.Load()); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, exitcode.BackendError
	}
	return v, exitcode.Success
}

// resolveTask parses the task reference in args and finds it in v.
// It returns the arguments after the reference.
func resolveTask(v *tasklist.View, args []string, errOut io.Writer) (service.Task, []string, int) {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, nil, exitcode.UserError
	}
	task, err := v.Lookup(num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, nil, exitcode.UserError
	}
	return task, rest, exitcode.Success
}

// storeFailed reports a failed store call.
func storeFailed(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(errOut, "error: task no longer exists (run: todo list)")
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// execute runs a request the view issued and prints "ok" on success.
// A refused request is reported without calling the store.
func execute(ctx context.Context, cfg *config.Config, v *tasklist.View, req tasklist.Request, issued bool, out, errOut io.Writer) int {
	if !issued {
		fmt.Fprintln(errOut, "error: task is busy, try again")
		return exitcode.UserError
	}
	if err := v.Do(ctx, req); err != nil {
		return storeFailed(errOut, err)
	}
	return ok(cfg, out)
}

func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
