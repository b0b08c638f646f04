package recorder

import "time"

// RegionOutcome is the result of one dashboard region.
type RegionOutcome struct {
	Region string
	Title  string
	Points int
	Error  string // empty on success
}

// RenderEvent describes one dashboard evaluation.
type RenderEvent struct {
	ID       string
	At       time.Time
	Primary  string
	Compare  []string
	Period   string
	Duration time.Duration
	Regions  []RegionOutcome
}

// Failed counts regions that ended in the error state.
func (e *RenderEvent) Failed() int {
	n := 0
	for _, r := range e.Regions {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// Recorder keeps an operational log of dashboard evaluations.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	Close() error
}
