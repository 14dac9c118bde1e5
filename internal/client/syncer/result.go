package syncer

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/models"
)

// MaxFailuresPerType bounds the failures kept per entity type. Counts stay exact.
const MaxFailuresPerType = 50

// Phase names the step a failure happened in.
type Phase string

const (
	PhaseDelete Phase = "delete"
	PhaseUpload Phase = "upload"
	PhasePush   Phase = "push"
	PhasePull   Phase = "pull"
)

// Failure describes one record that did not sync.
type Failure struct {
	Entity models.EntityType
	ID     string
	Phase  Phase
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s %s: %v", f.Phase, f.Entity, f.ID, f.Err)
}

// TypeResult holds the outcome for one entity type.
type TypeResult struct {
	Entity   models.EntityType
	Pushed   int
	Pulled   int
	Deleted  int
	Failed   int
	Failures []Failure
}

func (r *TypeResult) fail(id string, phase Phase, err error) {
	r.Failed++
	if len(r.Failures) < MaxFailuresPerType {
		r.Failures = append(r.Failures, Failure{Entity: r.Entity, ID: id, Phase: phase, Err: err})
	}
}

// Result aggregates one sync pass. Types are in sync order.
type Result struct {
	UserID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Types      []*TypeResult
}

func newResult(userID string, started time.Time) *Result {
	r := &Result{UserID: userID, StartedAt: started}
	for _, e := range Order {
		r.Types = append(r.Types, &TypeResult{Entity: e})
	}
	return r
}

// Get returns the result of one entity type, or nil.
func (r *Result) Get(e models.EntityType) *TypeResult {
	for _, t := range r.Types {
		if t.Entity == e {
			return t
		}
	}
	return nil
}

// Totals sums every type.
func (r *Result) Totals() TypeResult {
	var sum TypeResult
	for _, t := range r.Types {
		sum.Pushed += t.Pushed
		sum.Pulled += t.Pulled
		sum.Deleted += t.Deleted
		sum.Failed += t.Failed
	}
	return sum
}

// OK reports whether nothing failed.
func (r *Result) OK() bool {
	return r.Totals().Failed == 0
}

func (r *Result) String() string {
	t := r.Totals()
	return fmt.Sprintf("pushed=%d pulled=%d deleted=%d failed=%d", t.Pushed, t.Pulled, t.Deleted, t.Failed)
}
