package driver

// Stage describes a phase of a scan.
type Stage string

const (
	// StageLoad reads and normalizes a file.
	StageLoad Stage = "load"
	// StageScan extracts and ranks annotations.
	StageScan Stage = "scan"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is loaded and waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates a worker is scanning the file.
	StatusWorking Status = "working"
	// StatusDone indicates the file was scanned.
	StatusDone Status = "done"
	// StatusSkipped indicates the file was dropped as binary.
	StatusSkipped Status = "skipped"
	// StatusError indicates the file could not be read.
	StatusError Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Findings int
	Err      error
}

// ProgressSink receives scan events. Implementations must be safe for
// concurrent use; workers report independently.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
