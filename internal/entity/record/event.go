package record

import "time"

type Kind string

const (
	KindEarning Kind = "earning"
	KindExpense Kind = "expense"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent is published whenever a user's records change.
type ChangeEvent struct {
	UserID int64     `json:"userId"`
	Kind   Kind      `json:"kind"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}
