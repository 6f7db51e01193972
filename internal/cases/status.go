package cases

import (
	"strings"

	"lawfirm-cms/internal/apperr"
)

// Status is a free-form selector. Every state is reachable from every other
// and none is terminal; a concluded case may be reopened.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusConcluded Status = "concluded"
	StatusOther     Status = "other"
)

// InitialStatus is assigned to every new case.
const InitialStatus = StatusOngoing

var ErrInvalidStatus = apperr.Validation("Invalid status")

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusOngoing, StatusConcluded, StatusOther:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransition reports whether a case in s may move to next.
func (s Status) CanTransition(next Status) bool {
	_, err := ParseStatus(string(next))
	return err == nil
}
