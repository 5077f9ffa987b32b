package profile

import "errors"

// Mode is the state of the profile editor.
type Mode string

const (
	Viewing Mode = "viewing"
	Editing Mode = "editing"
	Saving  Mode = "saving"
)

var (
	ErrSaveInFlight = errors.New("profile is already being saved")
	ErrNotEditing   = errors.New("profile is not being edited")
)

// Editor is the profile editor state machine. The zero value is Viewing.
type Editor struct {
	Mode  Mode   `json:"mode"`
	Draft Draft  `json:"draft"`
	Error string `json:"error,omitempty"`
}

func (e Editor) mode() Mode {
	if e.Mode == "" {
		return Viewing
	}
	return e.Mode
}

// Edit enters editing with a draft seeded from p. Editing again keeps the
// current draft.
func (e Editor) Edit(p Profile) (Editor, error) {
	switch e.mode() {
	case Saving:
		return e, ErrSaveInFlight
	case Editing:
		return e, nil
	}
	return Editor{Mode: Editing, Draft: DraftOf(p)}, nil
}

// SetDraft replaces the draft while editing.
func (e Editor) SetDraft(d Draft) (Editor, error) {
	switch e.mode() {
	case Saving:
		return e, ErrSaveInFlight
	case Viewing:
		return e, ErrNotEditing
	}
	e.Draft = d
	return e, nil
}

// BeginSave moves an editing session to saving.
func (e Editor) BeginSave() (Editor, error) {
	switch e.mode() {
	case Saving:
		return e, ErrSaveInFlight
	case Viewing:
		return e, ErrNotEditing
	}
	return Editor{Mode: Saving, Draft: e.Draft}, nil
}

// Saved completes a save and returns to viewing.
func (e Editor) Saved() Editor {
	return Editor{Mode: Viewing}
}

// SaveFailed returns to editing with the draft kept and msg surfaced.
func (e Editor) SaveFailed(msg string) Editor {
	return Editor{Mode: Editing, Draft: e.Draft, Error: msg}
}
