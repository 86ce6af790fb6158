package resource

// FetchStatusType is the outcome recorded on a resource status entity.
type FetchStatusType string

const (
	// FetchStatusIndexed means the description was retrieved and published.
	FetchStatusIndexed FetchStatusType = "indexed"

	// FetchStatusAbsent means the repository reported the resource missing.
	FetchStatusAbsent FetchStatusType = "absent"

	// FetchStatusForbidden means the repository refused the request.
	FetchStatusForbidden FetchStatusType = "forbidden"

	// FetchStatusDeleted means the resource was removed upstream.
	FetchStatusDeleted FetchStatusType = "deleted"
)

// EventType is the kind of change announced for a resource.
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Valid reports whether the event type is known.
func (e EventType) Valid() bool {
	switch e {
	case EventCreate, EventUpdate, EventDelete:
		return true
	default:
		return false
	}
}
