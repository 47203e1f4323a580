package collector

import (
	"time"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// Status classifies a single adapter call
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Outcome is the explicit result of one adapter call
type Outcome struct {
	Provider domain.ProviderID
	Events   []*domain.Event
	Total    int
	Err      error
	Status   Status
	Duration time.Duration
}

// OK reports whether the call produced events
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Result is the merged answer for one search
type Result struct {
	Events []*domain.Event
	Total  int
	// Winner is the adapter whose events were returned; empty when nothing matched or in aggregate mode
	Winner   domain.ProviderID
	Outcomes []Outcome
}

func emptyResult(outcomes []Outcome) *Result {
	return &Result{Events: []*domain.Event{}, Outcomes: outcomes}
}
