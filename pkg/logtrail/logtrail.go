// Package logtrail accumulates an in-memory log returned in API responses.
// Each severity is capped per run; entries beyond the cap are dropped.
package logtrail

import (
	"fmt"
	"sync"
	"time"
)

type Severity string

const (
	SeverityDebug     Severity = "debug"
	SeverityError     Severity = "error"
	SeverityAudit     Severity = "audit"
	SeverityEmergency Severity = "emergency"
)

// DefaultCap is the per-severity entry limit within one run.
const DefaultCap = 500

// Statement is one log entry carried back to the caller.
type Statement struct {
	Timestamp time.Time `json:"timestamp"`
	Type      Severity  `json:"type"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
}

// Trail collects statements for one run. Safe for concurrent use.
type Trail struct {
	mu         sync.Mutex
	cap        int
	counts     map[Severity]int
	statements []Statement
}

func New() *Trail {
	return NewWithCap(DefaultCap)
}

func NewWithCap(perSeverityCap int) *Trail {
	if perSeverityCap <= 0 {
		perSeverityCap = DefaultCap
	}
	return &Trail{
		cap:    perSeverityCap,
		counts: make(map[Severity]int),
	}
}

func (t *Trail) Debug(title string, details any) {
	t.add(SeverityDebug, title, details)
}

func (t *Trail) Error(title string, details any) {
	t.add(SeverityError, title, details)
}

func (t *Trail) Audit(title string, details any) {
	t.add(SeverityAudit, title, details)
}

func (t *Trail) Emergency(title string, details any) {
	t.add(SeverityEmergency, title, details)
}

// Statements returns a copy of the collected entries in insertion order.
func (t *Trail) Statements() []Statement {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Statement, len(t.statements))
	copy(out, t.statements)
	return out
}

// Reset clears all entries and severity counts for a new run.
func (t *Trail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statements = nil
	t.counts = make(map[Severity]int)
}

func (t *Trail) add(severity Severity, title string, details any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Over-cap entries are dropped outright, not queued.
	if t.counts[severity] >= t.cap {
		return
	}
	t.counts[severity]++

	t.statements = append(t.statements, Statement{
		Timestamp: time.Now().UTC(),
		Type:      severity,
		Title:     title,
		Details:   formatDetails(details),
	})
}

func formatDetails(details any) string {
	switch d := details.(type) {
	case nil:
		return ""
	case string:
		return d
	case error:
		return d.Error()
	default:
		return fmt.Sprintf("%+v", d)
	}
}
