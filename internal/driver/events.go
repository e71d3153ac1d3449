package driver

import "time"

// Stage describes a phase of checking one file.
type Stage string

const (
	// StageLoad is reading and decoding the file.
	StageLoad Stage = "load"
	// StageDetect is picking the dialect.
	StageDetect Stage = "detect"
	// StageCheck is running the validator.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
	// StatusWarning: файл проверен, есть предупреждения, но нет ошибок.
	StatusWarning Status = "warning"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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

func emit(s ProgressSink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}
