package engine

type EventType int

const (
	EventOrderSubmit EventType = iota
	EventOrderReject
	EventOrderFill
	EventOrderCancel
	EventComplianceReject
	EventSizingSkip
	EventTradeClosed
	EventEquityPoint
)

type Event struct {
	Ts      int64
	Type    EventType
	Symbol  string
	Details map[string]string
}

// EventLog is the append-only audit trail for a run.
type EventLog struct {
	Events []Event
}

func (l *EventLog) Append(e Event) { l.Events = append(l.Events, e) }

func (l *EventLog) Count(t EventType) int {
	n := 0
	for _, e := range l.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
