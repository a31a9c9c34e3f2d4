package infrastructure

import (
	"fmt"

	"plottwist/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "users.balance_changed"
	case events.EventTypeProfileCreated:
		return "users.created"
	case events.EventTypeBetPlaced:
		return "bets.placed"
	case events.EventTypeMarketStateChange:
		return "markets.state_changed"
	case events.EventTypeChallengeStateChange:
		return "challenges.state_changed"
	case events.EventTypeDisputeOpened:
		return "disputes.opened"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "users.balance_changed":
		return events.EventTypeBalanceChange
	case "users.created":
		return events.EventTypeProfileCreated
	case "bets.placed":
		return events.EventTypeBetPlaced
	case "markets.state_changed":
		return events.EventTypeMarketStateChange
	case "challenges.state_changed":
		return events.EventTypeChallengeStateChange
	case "disputes.opened":
		return events.EventTypeDisputeOpened
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"users.balance_changed",
		"users.created",
		"bets.placed",
		"markets.state_changed",
		"challenges.state_changed",
		"disputes.opened",
	}
}
