package driver

// Stage is the step a file is in.
type Stage uint8

const (
	StageLoad Stage = iota
	StageLint
	StageFix
)

func (s Stage) String() string {
	switch s {
	case StageLint:
		return "linting"
	case StageFix:
		return "fixing"
	default:
		return "loading"
	}
}

// Status reports where a file is in its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusCached
	StatusError
)

// Event describes one progress step for one file.
type Event struct {
	File        string
	Stage       Stage
	Status      Status
	Diagnostics int
}

// Observer receives progress events. It is called from worker goroutines
// and must be safe for concurrent use.
type Observer func(Event)

func (o Observer) emit(ev Event) {
	if o != nil {
		o(ev)
	}
}
