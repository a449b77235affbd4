package ui

import (
	"sync"
	"time"

	"github.com/sgaunet/auto-release/internal/timeutil"
	"github.com/sgaunet/auto-release/pkg/release"
	"github.com/sgaunet/bullets"
)

// StepProgress prints one line when a release step starts and one when it
// finishes. Lines go through the run's logger so they interleave with the
// summary tables and the confirmation prompt in write order.
// It implements release.Observer.
type StepProgress struct {
	log     *bullets.Logger
	mu      sync.Mutex
	started map[release.Step]time.Time
}

// NewStepProgress creates a progress display writing through log.
func NewStepProgress(log *bullets.Logger) *StepProgress {
	return &StepProgress{
		log:     log,
		started: make(map[release.Step]time.Time),
	}
}

// StepStarted prints the description of step.
func (p *StepProgress) StepStarted(step release.Step) {
	p.mu.Lock()
	p.started[step] = time.Now()
	p.mu.Unlock()

	p.log.Info(step.Description() + "...")
}

// StepFinished prints a success or error mark for step with its duration.
// A step that was never started is ignored.
func (p *StepProgress) StepFinished(step release.Step, err error) {
	p.mu.Lock()
	start, ok := p.started[step]
	delete(p.started, step)
	p.mu.Unlock()
	if !ok {
		return
	}

	elapsed := timeutil.FormatDuration(time.Since(start))
	if err != nil {
		p.log.Errorf("%s failed (%s)", step.Description(), elapsed)
		return
	}
	p.log.Successf("%s (%s)", step.Description(), elapsed)
}
