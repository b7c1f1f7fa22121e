package audit

import (
	"encoding/json"
	"time"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionAdjust  Action = "adjust"
	ActionVerify  Action = "verify"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPay     Action = "pay"
	ActionDelete  Action = "delete"
)

const EntityTypePayroll = "payroll_record"

// Entry is one row of the append-only audit log.
type Entry struct {
	ID          string
	ActorID     string
	Action      Action
	EntityType  string
	EntityID    string
	Description string
	Before      json.RawMessage
	After       json.RawMessage
	CreatedAt   time.Time
}
