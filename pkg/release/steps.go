// Package release sequences the remote operations of a release: resolve the
// next version, bump the manifest, tag the bump commit, collect merged pull
// requests since the previous release, and open the release pull request.
//
// Every failure is reported as a [*StepError] naming the step that failed.
// No step is retried and nothing is rolled back.
package release

import (
	"errors"
	"fmt"
)

// Step identifies one stage of a release run.
type Step int

// Steps in execution order. The two remote reads run concurrently.
const (
	StepResolveVersion Step = iota
	StepReadManifestRevision
	StepReadHistory
	StepComposeNotes
	StepConfirm
	StepWriteManifest
	StepCreateTag
	StepOpenPullRequest
)

var stepNames = map[Step]string{
	StepResolveVersion:       "ResolveVersion",
	StepReadManifestRevision: "ReadManifestRevision",
	StepReadHistory:          "ReadHistory",
	StepComposeNotes:         "ComposeNotes",
	StepConfirm:              "Confirm",
	StepWriteManifest:        "WriteManifest",
	StepCreateTag:            "CreateTag",
	StepOpenPullRequest:      "OpenPullRequest",
}

var stepDescriptions = map[Step]string{
	StepResolveVersion:       "Resolving next version",
	StepReadManifestRevision: "Reading manifest",
	StepReadHistory:          "Reading release history",
	StepComposeNotes:         "Composing change log",
	StepConfirm:              "Waiting for confirmation",
	StepWriteManifest:        "Committing version bump",
	StepCreateTag:            "Creating tag",
	StepOpenPullRequest:      "Opening release pull request",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Description returns a human-readable label for progress output.
func (s Step) Description() string {
	if d, ok := stepDescriptions[s]; ok {
		return d
	}
	return s.String()
}

// StepError is the failure of one step. Err carries the platform sentinel.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step named by the first StepError in err's chain.
func FailedStep(err error) (Step, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}
	return 0, false
}

var errCancelled = errors.New("release cancelled by operator")

// ErrCancelled is returned when the operator declines the confirmation.
// Nothing has been mutated when it is returned.
var ErrCancelled = errCancelled

// Observer is notified around each step. Calls come from the goroutine
// running the release, never concurrently.
type Observer interface {
	StepStarted(step Step)
	StepFinished(step Step, err error)
}

type noopObserver struct{}

func (noopObserver) StepStarted(Step)         {}
func (noopObserver) StepFinished(Step, error) {}
