package tasklist

import "todo/internal/service"

// DialogKind tells which dialog, if any, is open.
type DialogKind int

const (
	DialogClosed DialogKind = iota
	DialogEdit
	DialogDelete
)

// Dialog is the modal state of the view. At most one dialog is open;
// opening one replaces the other.
type Dialog struct {
	Kind DialogKind

	// TaskID is the task the dialog targets.
	TaskID service.ID

	// Text is the pending edit text (DialogEdit only).
	Text string

	// Invalid is set when an empty edit was submitted (DialogEdit only).
	Invalid bool
}

// IsOpen reports whether any dialog is open.
func (d Dialog) IsOpen() bool { return d.Kind != DialogClosed }

func (d Dialog) targets(kind DialogKind, id service.ID) bool {
	return d.Kind == kind && d.TaskID == id
}
