package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"focusflow/internal/audio"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	case "":
		return PriorityMedium, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Record is one focus session.
type Record struct {
	ID        string
	Goal      string
	Planned   time.Duration
	Elapsed   time.Duration
	StartedAt time.Time
	Completed bool
	Blockers  string
	Insight   string
	Priority  Priority
	Sound     audio.Preset
}

// New starts a record for a session beginning now.
func New(goal string, planned time.Duration, sound audio.Preset, prio Priority) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Goal:      goal,
		Planned:   planned,
		StartedAt: time.Now().UTC(),
		Priority:  prio,
		Sound:     sound,
	}
}

// DefaultInsight is shown and stored when nothing better is available.
const DefaultInsight = "Focus is a muscle. Good workout today."

// Finish stamps the elapsed time and outcome.
func (r *Record) Finish(completed bool, now time.Time) {
	r.Completed = completed
	r.Elapsed = now.Sub(r.StartedAt).Round(time.Second)
	if r.Elapsed < 0 {
		r.Elapsed = 0
	}
}

// Reflect records what got in the way during the session and fills the
// insight if none was set.
func (r *Record) Reflect(blockers string) {
	r.Blockers = strings.TrimSpace(blockers)
	if r.Insight == "" {
		r.Insight = DefaultInsight
	}
}
