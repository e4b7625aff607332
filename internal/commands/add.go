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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: please enter a task")
		return exitcode.UserError
	}

	v, code := openView(ctx, cfg, store, errOut)
	if code != exitcode.Success {
		return code
	}

	v.SetInput(text)
	req, valid := v.Submit()
	if !valid {
		fmt.Fprintln(errOut, "error: please enter a task")
		return exitcode.UserError
	}
	if err := v.Do(ctx, req); err != nil {
		return storeFailed(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d\n", len(v.Tasks()))
	}
	return exitcode.Success
}
