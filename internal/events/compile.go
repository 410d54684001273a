package events

import "time"

// UnitStart is emitted before a compilation unit is compiled.
type UnitStart struct {
	Operations int
	Fragments  int
}

// UnitFinish is emitted after a compilation unit has been linked.
type UnitFinish struct {
	Documents int
	Errors    []error
	Warnings  int
	Duration  time.Duration
}

// DocumentStart is emitted before one operation or fragment is compiled.
type DocumentStart struct {
	Kind string
	Name string
}

// DocumentFinish is emitted after one document has been compiled.
type DocumentFinish struct {
	Kind     string
	Name     string
	Cached   bool
	Errors   []error
	Duration time.Duration
}
