package assist

type EventType string

const (
	EventStarted       EventType = "started"
	EventFragment      EventType = "fragment"
	EventReplaceFailed EventType = "replace_failed"
	EventCompleted     EventType = "completed"
	EventFailed        EventType = "failed"
)

// Event mirrors a streaming operation's progress for observers (the
// websocket layer pushes these to the browser). The document mutation is
// the operation's real output; events are progress only.
type Event struct {
	Type     EventType
	Action   string
	Fragment string // fragment events: the delta just applied
	Text     string // completed events: the full accumulated text
	Err      error
}

// Listener receives events synchronously from the runner goroutine. Keep
// implementations fast; hand off to channels for slow consumers.
type Listener func(Event)
