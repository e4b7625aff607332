// Package tasklist holds the task list view state and mediates every
// mutation through a service.Store.
//
// The local list mirrors the last state the store confirmed: it changes
// only when a successful Result is applied, never when a Request is
// issued. Store failures are logged and otherwise leave the view as it
// was.
//
// Mutations are split in two steps. A method such as Toggle validates and
// returns a Request; Execute runs it against the store; Apply folds the
// Result back into the view. Interactive frontends run Execute off their
// event loop, commands use Do which chains both steps.
//
// While a toggle, rename or delete is in flight for a task, further
// mutations of that task are refused, and no mutation is issued while a
// load is in flight. Results are applied to the current list by task ID,
// so a response for a task that is gone is dropped. A load is applied only
// if it is the newest one and no mutation was confirmed after it was
// issued.
package tasklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"todo/internal/service"
)

// ErrOutOfRange is returned by Lookup for numbers outside the list.
var ErrOutOfRange = errors.New("task number out of range")

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger store failures are written to.
// The global zerolog logger is used by default.
func WithLogger(l zerolog.Logger) Option {
	return func(v *View) {
		v.log = l
	}
}

// View is the state of one task list screen.
// It is not safe for concurrent use; all methods belong on one event loop.
type View struct {
	store service.Store
	log   zerolog.Logger

	tasks        []service.Task
	input        string
	inputInvalid bool
	dialog       Dialog

	pending  map[service.ID]Op
	inFlight int
	loadGen  uint64
	loading  bool

	// confirmed counts successful mutation results.
	confirmed uint64
}

// New creates an empty view over store.
func New(store service.Store, opts ...Option) *View {
	v := &View{
		store:   store,
		log:     log.Logger,
		pending: make(map[service.ID]Op),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Tasks returns a copy of the mirrored list in display order.
func (v *View) Tasks() []service.Task {
	out := make([]service.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

// Input returns the pending new-task text.
func (v *View) Input() string { return v.input }

// InputInvalid reports whether an empty new task was submitted since the
// input last changed.
func (v *View) InputInvalid() bool { return v.inputInvalid }

// Dialog returns the current dialog state.
func (v *View) Dialog() Dialog { return v.dialog }

// Pending reports whether a toggle, rename or delete is in flight for id.
func (v *View) Pending(id service.ID) bool {
	_, ok := v.pending[id]
	return ok
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool { return v.loading }

// Busy reports whether any request is in flight.
func (v *View) Busy() bool { return v.inFlight > 0 }

// Lookup returns the task shown at 1-based position n.
func (v *View) Lookup(n int) (service.Task, error) {
	if n < 1 || n > len(v.tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return v.tasks[n-1], nil
}

func (v *View) index(id service.ID) int {
	for i, t := range v.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (v *View) mutable(id service.ID) bool {
	return !v.loading && !v.Pending(id)
}

func (v *View) issue(req Request) Request {
	v.inFlight++
	switch req.Op {
	case OpToggle, OpRename, OpDelete:
		v.pending[req.ID] = req.Op
	}
	return req
}

// Load returns the request that fetches the whole collection. Starting a
// new load makes the results of older ones stale.
func (v *View) Load() Request {
	v.loadGen++
	v.loading = true
	return v.issue(Request{Op: OpLoad, gen: v.loadGen, seq: v.confirmed})
}

// SetInput replaces the pending new-task text and clears its validation
// flag.
func (v *View) SetInput(text string) {
	v.input = text
	v.inputInvalid = false
}

// Submit validates the pending text. Empty or whitespace-only text sets
// the validation flag and issues nothing. Valid text is refused while a
// load is in flight.
func (v *View) Submit() (Request, bool) {
	text, err := service.ValidateText(v.input)
	if err != nil {
		v.inputInvalid = true
		return Request{}, false
	}
	v.inputInvalid = false
	if v.loading {
		return Request{}, false
	}
	return v.issue(Request{Op: OpCreate, Text: text}), true
}

// Toggle returns the request inverting the completed flag of id.
// It refuses unknown and pending tasks, and any task while loading.
func (v *View) Toggle(id service.ID) (Request, bool) {
	i := v.index(id)
	if i < 0 || !v.mutable(id) {
		return Request{}, false
	}
	return v.issue(Request{Op: OpToggle, ID: id, Completed: !bool(v.tasks[i].Completed)}), true
}

// OpenEdit opens the edit dialog for id, pre-filled with its text.
func (v *View) OpenEdit(id service.ID) bool {
	i := v.index(id)
	if i < 0 {
		return false
	}
	v.dialog = Dialog{Kind: DialogEdit, TaskID: id, Text: v.tasks[i].Text}
	return true
}

// SetEditText replaces the edit dialog text and clears its validation flag.
func (v *View) SetEditText(text string) {
	if v.dialog.Kind != DialogEdit {
		return
	}
	v.dialog.Text = text
	v.dialog.Invalid = false
}

// SaveEdit validates the edit dialog text and returns the rename request.
// Empty text sets the dialog's validation flag and issues nothing. The
// dialog stays open until the rename succeeds.
func (v *View) SaveEdit() (Request, bool) {
	if v.dialog.Kind != DialogEdit {
		return Request{}, false
	}
	text, err := service.ValidateText(v.dialog.Text)
	if err != nil {
		v.dialog.Invalid = true
		return Request{}, false
	}
	id := v.dialog.TaskID
	if v.index(id) < 0 || !v.mutable(id) {
		return Request{}, false
	}
	return v.issue(Request{Op: OpRename, ID: id, Text: text}), true
}

// OpenDelete opens the delete confirmation for id.
func (v *View) OpenDelete(id service.ID) bool {
	if v.index(id) < 0 {
		return false
	}
	v.dialog = Dialog{Kind: DialogDelete, TaskID: id}
	return true
}

// ConfirmDelete returns the delete request for the confirmed task.
// The dialog stays open until the delete succeeds.
func (v *View) ConfirmDelete() (Request, bool) {
	if v.dialog.Kind != DialogDelete {
		return Request{}, false
	}
	id := v.dialog.TaskID
	if v.index(id) < 0 || !v.mutable(id) {
		return Request{}, false
	}
	return v.issue(Request{Op: OpDelete, ID: id}), true
}

// CancelDialog closes any open dialog. The list is not touched.
func (v *View) CancelDialog() {
	v.dialog = Dialog{}
}

// Apply folds a result into the view and reports whether it changed the
// mirrored list. Failed results are logged.
func (v *View) Apply(res Result) bool {
	if res.Op < OpLoad || res.Op > OpDelete {
		v.log.Error().Str("op", res.Op.String()).Msg("ignoring result of unknown operation")
		return false
	}
	if v.inFlight > 0 {
		v.inFlight--
	}
	if res.Op != OpLoad && res.Op != OpCreate {
		delete(v.pending, res.ID)
	}

	if res.Op == OpLoad {
		if res.gen != v.loadGen {
			v.log.Debug().Uint64("gen", res.gen).Msg("dropping stale load")
			return false
		}
		v.loading = false
	}

	if res.Err != nil {
		ev := v.log.Error().Err(res.Err).Str("op", res.Op.String())
		if res.ID != "" {
			ev = ev.Str("id", res.ID.String())
		}
		ev.Msg("store request failed")
		return false
	}

	if res.Op == OpLoad && res.seq != v.confirmed {
		v.log.Debug().Msg("dropping load issued before a confirmed change")
		return false
	}
	if res.Op != OpLoad {
		v.confirmed++
	}

	switch res.Op {
	case OpLoad:
		v.tasks = append([]service.Task(nil), res.Tasks...)
		v.log.Debug().Int("count", len(v.tasks)).Msg("tasks loaded")
		if v.dialog.IsOpen() && v.index(v.dialog.TaskID) < 0 {
			v.dialog = Dialog{}
		}
		return true

	case OpCreate:
		if i := v.index(res.Task.ID); i >= 0 {
			v.tasks[i] = res.Task
		} else {
			v.tasks = append(v.tasks, res.Task)
		}
		v.input = ""
		return true

	case OpToggle:
		i := v.index(res.ID)
		if i < 0 {
			return false
		}
		v.tasks[i].Completed = service.Flag(res.Completed)
		return true

	case OpRename:
		if v.dialog.targets(DialogEdit, res.ID) {
			v.dialog = Dialog{}
		}
		i := v.index(res.ID)
		if i < 0 {
			return false
		}
		v.tasks[i].Text = res.Text
		return true

	case OpDelete:
		if v.dialog.TaskID == res.ID {
			v.dialog = Dialog{}
		}
		i := v.index(res.ID)
		if i < 0 {
			return false
		}
		v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
		return true
	}
	return false
}

// Do executes req against the view's store and applies the result.
// It returns the store error, which Apply has already logged.
func (v *View) Do(ctx context.Context, req Request) error {
	res := Execute(ctx, v.store, req)
	v.Apply(res)
	return res.Err
}
