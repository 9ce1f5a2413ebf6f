package services

// Типы событий для зрителей.
const (
	EventMatchUpdated      = "MATCH_UPDATED"
	EventBracketSeeded     = "BRACKET_SEEDED"
	EventGroupUpdated      = "GROUP_UPDATED"
	EventGroupsInitialized = "GROUPS_INITIALIZED"
	EventKnockoutSeeded    = "KNOCKOUT_SEEDED"
	EventSurvivalUpdated   = "SURVIVAL_UPDATED"
	EventExportPublished   = "EXPORT_PUBLISHED"
)

// Notifier pushes state changes to spectators of a room. brackets.Hub implements it.
type Notifier interface {
	Publish(roomID, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
