package solver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructural marks a request that cannot be solved at all. No partial
// result accompanies it.
var ErrStructural = errors.New("structural error")

// StructuralError describes why a request was rejected outright.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

// Is lets errors.Is(err, ErrStructural) match any *StructuralError.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

func structuralf(format string, args ...any) error {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// NoteCode classifies a recovered, non-fatal anomaly.
type NoteCode string

const (
	NoteInvalidBounds       NoteCode = "invalid_bounds"
	NoteInvalidEstimate     NoteCode = "invalid_estimate"
	NoteZeroUnits           NoteCode = "zero_units"
	NoteLockWithoutEstimate NoteCode = "lock_without_estimate"
	NoteLockOutsideBounds   NoteCode = "lock_outside_bounds"
	NoteUnderDetermined     NoteCode = "under_determined"
	NoteOverDetermined      NoteCode = "over_determined"
	NoteBoundBinding        NoteCode = "bound_binding"
	NoteNotConverged        NoteCode = "not_converged"
)

// Note is one warning attached to a solve. Group is empty for warnings
// that concern the whole system.
type Note struct {
	Code    NoteCode `json:"code"`
	Group   string   `json:"group,omitempty"`
	Message string   `json:"message"`
}

// Notes is the notes block of a result. Warning joins every message so a
// caller that only shows one line still sees all of them.
type Notes struct {
	Warning string `json:"warning,omitempty"`
	Items   []Note `json:"items,omitempty"`
}

// Has reports whether any note carries the given code.
func (n Notes) Has(code NoteCode) bool {
	for _, item := range n.Items {
		if item.Code == code {
			return true
		}
	}
	return false
}

// ForGroup returns the messages attached to one group.
func (n Notes) ForGroup(code string) []string {
	var out []string
	for _, item := range n.Items {
		if item.Group == code {
			out = append(out, item.Message)
		}
	}
	return out
}

type noteSet struct {
	items []Note
}

func (s *noteSet) add(code NoteCode, group, format string, args ...any) {
	s.items = append(s.items, Note{Code: code, Group: group, Message: fmt.Sprintf(format, args...)})
}

func (s *noteSet) extend(notes []Note) {
	s.items = append(s.items, notes...)
}

func (s *noteSet) build() Notes {
	if len(s.items) == 0 {
		return Notes{}
	}
	msgs := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if item.Group != "" {
			msgs = append(msgs, item.Group+": "+item.Message)
			continue
		}
		msgs = append(msgs, item.Message)
	}
	items := make([]Note, len(s.items))
	copy(items, s.items)
	return Notes{Warning: strings.Join(msgs, "; "), Items: items}
}
