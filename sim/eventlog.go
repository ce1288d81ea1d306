package sim

// defaultEventLogCapacity bounds the in-memory event history kept for the
// TUI and HTTP collaborators.
const defaultEventLogCapacity = 50

// EventLog is a bounded, append-only ring of human-readable event lines.
// When full, appending drops the oldest line.
type EventLog struct {
	capacity int
	lines    []string
}

func newEventLog(capacity int) *EventLog {
	return &EventLog{capacity: capacity}
}

// Append adds a line, evicting the oldest one if the log is full.
func (l *EventLog) Append(line string) {
	if len(l.lines) == l.capacity {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:len(l.lines)-1]
	}
	l.lines = append(l.lines, line)
}

// Lines returns a copy of the retained lines, oldest first.
func (l *EventLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of retained lines.
func (l *EventLog) Len() int {
	return len(l.lines)
}

func (l *EventLog) reset() {
	l.lines = nil
}
