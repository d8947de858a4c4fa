package resource

// Mode is the active modal overlay of a screen.
type Mode int

const (
	ModeClosed Mode = iota
	ModeEditing
	ModeConfirmingDelete
	ModeAddingMember
	ModeViewingDetail
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeConfirmingDelete:
		return "confirming-delete"
	case ModeAddingMember:
		return "adding-member"
	case ModeViewingDetail:
		return "viewing-detail"
	default:
		return "closed"
	}
}

// Session is the modal state machine of one screen. At most one overlay is
// active; AddingMember is nested under Editing and returns to it on cancel.
// The zero value is Closed.
type Session[T any] struct {
	mode       Mode
	target     *T
	submitting bool
	err        error
}

// Mode returns the active overlay.
func (s *Session[T]) Mode() Mode { return s.mode }

// Open reports whether any overlay is active.
func (s *Session[T]) Open() bool { return s.mode != ModeClosed }

// Target returns the record the overlay operates on. ok is false for a
// create form and when closed.
func (s *Session[T]) Target() (T, bool) {
	if s.target == nil {
		var zero T
		return zero, false
	}
	return *s.target, true
}

// Creating reports whether the editing form is for a new record.
func (s *Session[T]) Creating() bool {
	return (s.mode == ModeEditing || s.mode == ModeAddingMember) && s.target == nil
}

// Submitting reports whether a write is in flight.
func (s *Session[T]) Submitting() bool { return s.submitting }

// Err returns the error of the last failed submit.
func (s *Session[T]) Err() error { return s.err }

// OpenCreate opens an empty editing form.
func (s *Session[T]) OpenCreate() bool {
	return s.enter(ModeEditing, nil)
}

// OpenEdit opens the editing form for r.
func (s *Session[T]) OpenEdit(r T) bool {
	return s.enter(ModeEditing, &r)
}

// OpenDelete asks for confirmation before deleting r.
func (s *Session[T]) OpenDelete(r T) bool {
	return s.enter(ModeConfirmingDelete, &r)
}

// OpenDetail shows r read-only.
func (s *Session[T]) OpenDetail(r T) bool {
	return s.enter(ModeViewingDetail, &r)
}

// OpenAddMember enters the nested member form. Only valid while editing an
// existing record.
func (s *Session[T]) OpenAddMember() bool {
	if s.mode != ModeEditing || s.target == nil || s.submitting {
		return false
	}
	s.mode = ModeAddingMember
	s.err = nil
	return true
}

func (s *Session[T]) enter(mode Mode, target *T) bool {
	if s.mode != ModeClosed {
		return false
	}
	s.mode = mode
	s.target = target
	s.submitting = false
	s.err = nil
	return true
}

// Cancel leaves the active overlay. AddingMember returns to Editing with the
// same parent; everything else closes. Cancel is ignored while submitting.
func (s *Session[T]) Cancel() {
	if s.submitting {
		return
	}
	if s.mode == ModeAddingMember {
		s.mode = ModeEditing
		s.err = nil
		return
	}
	s.close()
}

// Begin marks a submit as in flight. It returns ErrBusy when one already is.
func (s *Session[T]) Begin() error {
	if s.submitting {
		return ErrBusy
	}
	s.submitting = true
	s.err = nil
	return nil
}

// Succeed finishes a submit. Member forms return to the parent editor with
// the refreshed parent record when one is given; other overlays close.
func (s *Session[T]) Succeed(refreshed *T) {
	s.submitting = false
	s.err = nil
	if s.mode == ModeAddingMember {
		s.mode = ModeEditing
		if refreshed != nil {
			s.target = refreshed
		}
		return
	}
	s.close()
}

// Settle finishes a submit that keeps the current overlay open, such as a
// member action taken from the editor.
func (s *Session[T]) Settle(refreshed *T) {
	s.submitting = false
	s.err = nil
	if refreshed != nil && s.mode != ModeClosed {
		s.target = refreshed
	}
}

// Reselect swaps the target for a refreshed copy without leaving the overlay.
func (s *Session[T]) Reselect(r T) {
	if s.mode == ModeClosed {
		return
	}
	s.target = &r
}

// Fail finishes a submit with an error. The overlay stays open.
func (s *Session[T]) Fail(err error) {
	s.submitting = false
	s.err = err
}

func (s *Session[T]) close() {
	s.mode = ModeClosed
	s.target = nil
	s.submitting = false
	s.err = nil
}
