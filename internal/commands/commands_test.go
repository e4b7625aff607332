package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

var errBackend = errors.New("connection refused")

// runCommand is a helper to run a command against a store.
func runCommand(t *testing.T, cmd commands.Command, store service.Store, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, store, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeStore {
	store := testutil.NewFakeStore()
	store.AddTask("Buy milk", false)
	store.AddTask("Walk dog", true)
	store.AddTask("Call mom", false)
	return store
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("help output should contain 'Usage:'")
	}
	if !bytes.Contains([]byte(stdout), []byte("Common flags:")) {
		t.Error("help output should contain 'Common flags:'")
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	store := seeded()

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk\n   2  [x] Walk dog\n   3  [ ] Call mom\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_OpenOnlyKeepsNumbers(t *testing.T) {
	store := seeded()

	cmd := &commands.ListCmd{}
	cmd.SetOpenOnly(true)
	stdout, _, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Buy milk\n   3  [ ] Call mom\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, store, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	store := seeded()
	store.ListErr = errBackend

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: backend error: connection refused\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unexpected argument: extra\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	store := seeded()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, []string{"Water", "plants"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok 4\n" {
		t.Errorf("expected 'ok 4\\n', got %q", stdout)
	}

	tasks := store.Tasks()
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
	if tasks[3].Text != "Water plants" {
		t.Errorf("expected text 'Water plants', got %q", tasks[3].Text)
	}
	if tasks[3].Completed {
		t.Error("expected new task to be open")
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.AddCmd{}
	stdout, _, code := runCommand(t, cmd, store, []string{"Water plants"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_EmptyTextNeverCallsStore(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}, {"", "\t"}} {
		store := seeded()

		cmd := &commands.AddCmd{}
		_, stderr, code := runCommand(t, cmd, store, args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
		if stderr != "error: please enter a task\n" {
			t.Errorf("%q: expected 'error: please enter a task\\n', got %q", args, stderr)
		}
		if calls := store.Calls(); len(calls) != 0 {
			t.Errorf("%q: expected no store calls, got %v", args, calls)
		}
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	store := seeded()
	store.CreateErr = errBackend

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, store, []string{"Water plants"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(store.Tasks()) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(store.Tasks()))
	}
}

// Tests for done command
func TestDoneCommand_Toggles(t *testing.T) {
	store := seeded()

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	calls := store.Calls()
	last := calls[len(calls)-1]
	if last.Op != "set_completed" || last.ID != "2" || last.Completed {
		t.Errorf("expected set_completed(2, false), got %+v", last)
	}
	if store.Tasks()[1].Completed {
		t.Error("expected task 2 to be reopened")
	}
}

func TestDoneCommand_HashRef(t *testing.T) {
	store := seeded()

	cmd := &commands.DoneCmd{}
	_, _, code := runCommand(t, cmd, store, []string{"#1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !store.Tasks()[0].Completed {
		t.Error("expected task 1 to be completed")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected 'error: task reference required\\n', got %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: abc\n" {
		t.Errorf("expected 'error: invalid task reference: abc\\n', got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	store := seeded()

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, store, []string{"9"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 9\n" {
		t.Errorf("expected 'error: task number out of range: 9\\n', got %q", stderr)
	}
	for _, c := range store.Calls() {
		if c.Op != "list" {
			t.Errorf("expected only list calls, got %+v", c)
		}
	}
}

func TestDoneCommand_TaskGone(t *testing.T) {
	store := seeded()
	store.SetCompletedErr = service.ErrNotFound

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, store, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: task no longer exists (run: todo list)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_BackendErrorLeavesFlag(t *testing.T) {
	store := seeded()
	store.SetCompletedErr = errBackend

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, store, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.Tasks()[0].Completed {
		t.Error("expected task 1 to stay open")
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	store := seeded()

	cmd := &commands.EditCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, []string{"3", "Call", "dad"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := store.Tasks()
	if tasks[2].Text != "Call dad" {
		t.Errorf("expected 'Call dad', got %q", tasks[2].Text)
	}
	if tasks[0].Text != "Buy milk" || tasks[1].Text != "Walk dog" {
		t.Errorf("expected other tasks untouched, got %v", tasks)
	}
}

func TestEditCommand_EmptyText(t *testing.T) {
	store := seeded()

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, store, []string{"1", "  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: please enter a task\n" {
		t.Errorf("expected 'error: please enter a task\\n', got %q", stderr)
	}
	for _, c := range store.Calls() {
		if c.Op == "rename" {
			t.Errorf("expected no rename call, got %+v", c)
		}
	}
}

func TestEditCommand_NoRef(t *testing.T) {
	store := seeded()

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected 'error: task reference required\\n', got %q", stderr)
	}
	if len(store.Calls()) != 0 {
		t.Errorf("expected no store calls, got %v", store.Calls())
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	store := seeded()

	cmd := &commands.RmCmd{}
	stdout, stderr, code := runCommand(t, cmd, store, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].Text != "Buy milk" || tasks[1].Text != "Call mom" {
		t.Errorf("expected only task 2 removed, got %v", tasks)
	}
}

func TestRmCommand_BackendErrorKeepsTask(t *testing.T) {
	store := seeded()
	store.DeleteErr = errBackend

	cmd := &commands.RmCmd{}
	_, _, code := runCommand(t, cmd, store, []string{"2"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if len(store.Tasks()) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(store.Tasks()))
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected 'error: task reference required\\n', got %q", stderr)
	}
}

// Tests for ui command
func TestUICommand_NeedsTerminal(t *testing.T) {
	store := seeded()

	cmd := &commands.UICmd{}
	_, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: interactive mode requires a terminal (try: todo list)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if len(store.Calls()) != 0 {
		t.Errorf("expected no store calls, got %v", store.Calls())
	}
}

func TestRegistry_Aliases(t *testing.T) {
	for alias, name := range map[string]string{
		"ls":     "list",
		"create": "add",
		"toggle": "done",
		"rename": "edit",
		"delete": "rm",
	} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("expected alias %q to be registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("expected %q to resolve to %q, got %q", alias, name, cmd.Name())
		}
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&commands.ListCmd{})
	if err == nil {
		t.Fatal("expected error for duplicate registration")
	}
	if err.Error() != "command name already registered: list" {
		t.Errorf("unexpected error %q", err.Error())
	}
}
