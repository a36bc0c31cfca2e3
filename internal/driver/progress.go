package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageParse Stage = "parse"
	StageLower Stage = "lower"
	StageEmit  Stage = "emit"
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the overall build when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: BuildAll reports from several workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// fileSink reports every event under the caller's spelling of the path.
type fileSink struct {
	path string
	next ProgressSink
}

func (s fileSink) OnEvent(evt Event) {
	evt.File = s.path
	s.next.OnEvent(evt)
}

func (o Options) progress(file string, stage Stage, status Status, err error) {
	if o.Progress == nil {
		return
	}
	o.Progress.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err})
}
