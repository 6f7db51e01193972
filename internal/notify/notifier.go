// Package notify delivers best-effort messages about case events.
package notify

import (
	"context"
	"errors"
	"sync"
)

// AssignmentNotice is everything the assigned lawyer needs to prepare.
type AssignmentNotice struct {
	LawyerName    string
	LawyerEmail   string
	CaseNumber    string
	ClientName    string
	ClientEmail   string
	ClientContact string
	LastDate      string
	NextDate      string
	Note          string
}

// Notifier sends assignment emails. Implementations receive credentials at
// construction and never read them from globals.
type Notifier interface {
	NotifyAssignment(ctx context.Context, n AssignmentNotice) error
}

// Nop drops every notice. Used when no mail relay is configured.
type Nop struct{}

func (Nop) NotifyAssignment(context.Context, AssignmentNotice) error { return nil }

// ErrNoRecipient is returned when the notice has no lawyer email.
var ErrNoRecipient = errors.New("notify: recipient email is empty")

// Recorder keeps notices in memory. Useful in tests.
type Recorder struct {
	mu      sync.Mutex
	notices []AssignmentNotice
	Err     error
}

func (r *Recorder) NotifyAssignment(_ context.Context, n AssignmentNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.notices = append(r.notices, n)
	return nil
}

func (r *Recorder) Notices() []AssignmentNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AssignmentNotice, len(r.notices))
	copy(out, r.notices)
	return out
}
