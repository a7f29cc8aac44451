package health

import (
	"context"
	"slices"
	"time"
)

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means every check passed.
	Healthy Status = "ok"
	// Degraded means at least one check failed.
	Degraded Status = "degraded"
)

// CheckResult is the outcome of one check.
type CheckResult string

const (
	// CheckOK marks a passing check.
	CheckOK CheckResult = "ok"
	// CheckError marks a failing check.
	CheckError CheckResult = "error"
)

// Names of the individual checks in Report.Checks.
const (
	CheckDatabase = "database"
	CheckIndexes  = "indexes"
)

const checkTimeout = 2 * time.Second

// Report aggregates check results. Missing lists expected indexes the server does not have.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Missing []string
}

// Service runs the readiness checks behind GET /health.
type Service struct {
	db       DBPinger
	indexes  IndexLister
	expected []string
}

// New creates a Service. With a nil lister only the database is checked.
func New(db DBPinger, indexes IndexLister, expected []string) *Service {
	return &Service{db: db, indexes: indexes, expected: expected}
}

// Check pings the database and, when configured, verifies every expected index exists.
// Each check gets its own deadline so a hung connection cannot stall the probe.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: map[string]CheckResult{CheckDatabase: CheckOK}}

	pctx, cancel := context.WithTimeout(ctx, checkTimeout)
	err := s.db.Ping(pctx)
	cancel()
	if err != nil {
		r.fail(CheckDatabase)
	}

	if s.indexes == nil {
		return r
	}
	r.Checks[CheckIndexes] = CheckOK

	lctx, cancel := context.WithTimeout(ctx, checkTimeout)
	present, err := s.indexes.ListIndexes(lctx)
	cancel()
	if err != nil {
		r.fail(CheckIndexes)
		return r
	}
	for _, name := range s.expected {
		if !slices.Contains(present, name) {
			r.Missing = append(r.Missing, name)
		}
	}
	if len(r.Missing) > 0 {
		r.fail(CheckIndexes)
	}
	return r
}

func (r *Report) fail(check string) {
	r.Checks[check] = CheckError
	r.Status = Degraded
}
