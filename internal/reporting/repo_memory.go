package reporting

import "context"

// MemoryRepo returns fixed aggregates. Useful for tests.
type MemoryRepo struct {
	CountsOut DashboardCounts
	TypesOut  []TypeCount
	Err       error
}

func (r *MemoryRepo) Counts(context.Context) (DashboardCounts, error) {
	return r.CountsOut, r.Err
}

func (r *MemoryRepo) CaseTypes(context.Context) ([]TypeCount, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]TypeCount, len(r.TypesOut))
	copy(out, r.TypesOut)
	return out, nil
}
