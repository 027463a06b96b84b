package harvest

// EventKind names a diagnostic emitted by a Harvester.
type EventKind string

const (
	EventProgressRead        EventKind = "progress-read"
	EventProgressFallback    EventKind = "progress-fallback"
	EventProgressUnavailable EventKind = "progress-unavailable"
	EventItemsAdded          EventKind = "items-added"
	EventNoNewItems          EventKind = "no-new-items"
	EventAdvanceIssued       EventKind = "advance-issued"
	EventAdvanceNoControl    EventKind = "advance-no-control"
	EventAdvanceFailed       EventKind = "advance-failed"
	EventGrowthConfirmed     EventKind = "growth-confirmed"
	EventGrowthTimeout       EventKind = "growth-timeout"
	EventCollectionError     EventKind = "collection-error"
	EventDone                EventKind = "done"
)

// Event carries the state of the harvest at the moment it was emitted.
// Fields irrelevant to a kind are left zero.
type Event struct {
	Kind        EventKind
	Added       int
	Collected   int
	Target      int
	Attempt     int
	MaxAttempts int
	Progress    Progress
	Reason      StopReason
	Err         error
}

// Observer receives events synchronously from the collecting goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
