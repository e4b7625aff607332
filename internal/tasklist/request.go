package tasklist

import (
	"context"
	"fmt"

	"todo/internal/service"
)

// Op names a store operation.
type Op int

const (
	OpLoad Op = iota + 1
	OpCreate
	OpToggle
	OpRename
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpToggle:
		return "toggle"
	case OpRename:
		return "rename"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Request is one store call issued by the view. It is a plain value so a
// frontend can run it off its event loop and hand the Result back.
type Request struct {
	Op        Op
	ID        service.ID
	Text      string
	Completed bool

	gen uint64
	seq uint64
}

// Result is the outcome of executing a Request.
type Result struct {
	Request

	// Task is the created task (OpCreate).
	Task service.Task

	// Tasks is the fetched collection (OpLoad).
	Tasks []service.Task

	Err error
}

// Execute performs req against store. It does not touch any view state
// and is safe to call from any goroutine.
func Execute(ctx context.Context, store service.Store, req Request) Result {
	res := Result{Request: req}
	switch req.Op {
	case OpLoad:
		res.Tasks, res.Err = store.List(ctx)
	case OpCreate:
		res.Task, res.Err = store.Create(ctx, req.Text)
	case OpToggle:
		res.Err = store.SetCompleted(ctx, req.ID, req.Completed)
	case OpRename:
		res.Err = store.Rename(ctx, req.ID, req.Text)
	case OpDelete:
		res.Err = store.Delete(ctx, req.ID)
	default:
		res.Err = fmt.Errorf("unknown operation: %s", req.Op)
	}
	return res
}
