package deal

import (
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

type EventType string

const (
	EventCreated         EventType = "created"
	EventUpdated         EventType = "updated"
	EventDeleted         EventType = "deleted"
	EventFavoriteToggled EventType = "favorite_toggled"
	EventLoaded          EventType = "loaded"
)

func (t EventType) String() string {
	return string(t)
}

// Event отправляется подписчикам после каждой успешной мутации.
// Snapshot — копия коллекции сразу после этой мутации, в порядке хранения.
type Event struct {
	Type     EventType
	DealID   value.DealID
	Revision uint64
	Snapshot []entity.Deal
}

type Subscriber func(Event)
