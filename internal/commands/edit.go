package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's text" }
func (c *EditCmd) Usage() string     { return "todo edit <n> <text...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if _, _, err := ParseTaskRef(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	v, code := openView(ctx, cfg, store, errOut)
	if code != exitcode.Success {
		return code
	}
	task, rest, code := resolveTask(v, args, errOut)
	if code != exitcode.Success {
		return code
	}

	v.OpenEdit(task.ID)
	v.SetEditText(strings.Join(rest, " "))
	req, issued := v.SaveEdit()
	if !issued && v.Dialog().Invalid {
		fmt.Fprintln(errOut, "error: please enter a task")
		return exitcode.UserError
	}
	return execute(ctx, cfg, v, req, issued, out, errOut)
}
