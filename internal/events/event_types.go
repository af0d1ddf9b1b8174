package events

// EventType identifies a published event.
type EventType string

const (
	// EventPolicyMutated fires after any write to the policy table
	// (create, update, delete, restore, wipe, staff-id propagation).
	EventPolicyMutated EventType = "policy.mutated"
	// EventRosterMutated fires after any write to the staff roster.
	EventRosterMutated EventType = "roster.mutated"
)

// Event is the payload delivered to subscribers.
type Event struct {
	Type      EventType
	Operation string
	StaffID   string
}
