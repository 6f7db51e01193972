// Package assignment binds a lawyer to a case and tells the lawyer about it.
//
// The database write is the source of truth. Notification runs after the
// write and its failure never fails the assignment.
package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/cases"
	"lawfirm-cms/internal/lawyers"
	"lawfirm-cms/internal/notify"
)

var (
	ErrMissingFields  = apperr.Validation("NIC or lawyer missing")
	ErrLawyerNotFound = apperr.NotFound("Lawyer not found")
)

type LawyerDirectory interface {
	FindByName(ctx context.Context, name string) (lawyers.Lawyer, error)
}

type CaseLookup interface {
	Get(ctx context.Context, caseNumber string) (cases.Case, error)
}

type Recorder interface {
	Record(ctx context.Context, username, action, details string)
}

// Ack reports a recorded assignment. NotifyErr is set when a requested
// notification could not be delivered; the assignment still stands.
type Ack struct {
	Assignment Assignment
	Notified   bool
	NotifyErr  error
}

type Service struct {
	store    Store
	lawyers  LawyerDirectory
	cases    CaseLookup
	notifier notify.Notifier
	audit    Recorder
	log      *slog.Logger
	clock    func() time.Time

	notifyTimeout time.Duration
}

func NewService(store Store, dir LawyerDirectory, cl CaseLookup, n notify.Notifier, rec Recorder, log *slog.Logger) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:         store,
		lawyers:       dir,
		cases:         cl,
		notifier:      n,
		audit:         rec,
		log:           log,
		clock:         time.Now,
		notifyTimeout: 30 * time.Second,
	}
}

// Assign upserts the assignment for caseNumber. A persistence failure is
// returned and nothing else happens.
func (s *Service) Assign(ctx context.Context, actor, caseNumber, lawyerName string, wantNotify bool) (Ack, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	lawyerName = strings.TrimSpace(lawyerName)
	if caseNumber == "" || lawyerName == "" {
		return Ack{}, ErrMissingFields
	}

	a := Assignment{CaseNumber: caseNumber, LawyerName: lawyerName, AssignedAt: s.clock().UTC()}
	if err := s.store.Upsert(ctx, a); err != nil {
		return Ack{}, err
	}

	ack := Ack{Assignment: a}
	if wantNotify {
		ack.NotifyErr = s.notify(ctx, a)
		ack.Notified = ack.NotifyErr == nil
	}

	s.audit.Record(ctx, actor, audit.ActionAssignLawyer, fmt.Sprintf("Assigned %s to case %s", lawyerName, caseNumber))
	return ack, nil
}

func (s *Service) notify(ctx context.Context, a Assignment) error {
	l, err := s.lawyers.FindByName(ctx, a.LawyerName)
	if err != nil || strings.TrimSpace(l.Email) == "" {
		s.log.WarnContext(ctx, "assignment notify skipped: lawyer lookup failed",
			"case_number", a.CaseNumber, "lawyer", a.LawyerName, "err", err)
		return ErrLawyerNotFound
	}
	c, err := s.cases.Get(ctx, a.CaseNumber)
	if err != nil {
		s.log.WarnContext(ctx, "assignment notify skipped: case lookup failed",
			"case_number", a.CaseNumber, "err", err)
		return err
	}

	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	err = s.notifier.NotifyAssignment(nctx, notify.AssignmentNotice{
		LawyerName:    l.Name,
		LawyerEmail:   l.Email,
		CaseNumber:    c.CaseNumber,
		ClientName:    c.ClientName,
		ClientEmail:   c.Email,
		ClientContact: c.Contact,
		LastDate:      c.LastDate,
		NextDate:      c.NextDate,
		Note:          c.Note,
	})
	if err != nil {
		err = apperr.Notification("assignment email", err)
		s.log.ErrorContext(ctx, "assignment email failed", "case_number", a.CaseNumber, "lawyer", a.LawyerName, "err", err)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, caseNumber string) (Assignment, error) {
	return s.store.Get(ctx, caseNumber)
}
