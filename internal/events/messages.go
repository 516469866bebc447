package events

import (
	"encoding/json"
	"time"
)

const (
	TypeExpenseCreated  = "expense.created"
	TypeExpenseUpdated  = "expense.updated"
	TypeExpenseDeleted  = "expense.deleted"
	TypeCategoryCreated = "category.created"
	TypeCategoryUpdated = "category.updated"
	TypeCategoryDeleted = "category.deleted"
)

// LedgerEvent is the message emitted after a ledger mutation commits.
// It carries identifiers only, consumers fetch the full record themselves.
type LedgerEvent struct {
	Type      string    `json:"type"`
	OwnerID   int64     `json:"owner_id"`
	EntityID  int64     `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(eventType string, ownerID, entityID int64) *LedgerEvent {
	return &LedgerEvent{
		Type:      eventType,
		OwnerID:   ownerID,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
