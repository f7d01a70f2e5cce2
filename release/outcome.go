package release

// Action is what happened to one ticket
type Action string

const (
	ActionSkipped      Action = "skipped"
	ActionSimulated    Action = "simulated"
	ActionTransitioned Action = "transitioned"
	ActionFailed       Action = "failed"
)

// Step names a sub-step of ticket processing
type Step string

const (
	StepFetch      Step = "fetch"
	StepTransition Step = "transition"
	StepLabel      Step = "label"
	StepComment    Step = "comment"
)

// StepFailure records a failed sub-step
type StepFailure struct {
	Step  Step   `json:"step"`
	Error string `json:"error"`
}

// Outcome is the per-ticket result of a run. It is reported, never stored.
type Outcome struct {
	Ticket       string        `json:"ticket"`
	Action       Action        `json:"action"`
	Status       string        `json:"status,omitempty"` // status as fetched
	Detail       string        `json:"detail,omitempty"`
	URL          string        `json:"url,omitempty"`
	LabelAdded   bool          `json:"label_added,omitempty"`
	Commented    bool          `json:"commented,omitempty"`
	StepFailures []StepFailure `json:"step_failures,omitempty"`
}

// Failed reports whether step failed for this ticket
func (o Outcome) Failed(step Step) bool {
	for _, f := range o.StepFailures {
		if f.Step == step {
			return true
		}
	}
	return false
}

// PublishAction is what happened to the release tag
type PublishAction string

const (
	PublishSimulated    PublishAction = "simulated"
	PublishSkipped      PublishAction = "skipped"
	PublishPushed       PublishAction = "pushed"
	PublishCreateFailed PublishAction = "create_failed"
	PublishPushFailed   PublishAction = "push_failed"
)

// PublishOutcome is the result of publishing one tag
type PublishOutcome struct {
	Tag    string        `json:"tag"`
	Commit string        `json:"commit"`
	Remote string        `json:"remote"`
	Action PublishAction `json:"action"`
	Err    error         `json:"-"`
}

// Failed reports whether creating or pushing the tag failed
func (p PublishOutcome) Failed() bool {
	return p.Action == PublishCreateFailed || p.Action == PublishPushFailed
}

// Counts tallies outcomes per action
func Counts(outcomes []Outcome) map[Action]int {
	counts := make(map[Action]int, 4)
	for _, o := range outcomes {
		counts[o.Action]++
	}
	return counts
}
