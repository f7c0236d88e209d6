package model

import (
	"encoding/json"

	"github.com/reap-finance/onboarding/model"
)

// CreateVerification opens a verification workflow. AutoStart defaults to true when omitted.
type CreateVerification struct {
	EntityID     string                   `json:"entity_id"`
	ExternalID   string                   `json:"external_id"`
	Type         string                   `json:"type"`
	Requirements []model.RequirementInput `json:"requirements"`
	MemberID     string                   `json:"member_id"`
	AutoStart    *bool                    `json:"auto_start"`
}

type WidgetEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type UpdateAutoStart struct {
	AutoStart *bool `json:"auto_start"`
}

type CreateWidgetToken struct {
	UserID    string `json:"user_id"`
	LevelName string `json:"level_name"`
	TTLInSecs int    `json:"ttl_in_secs"`
}
