package model

import "github.com/reap-finance/onboarding/model"

type CreateEntity struct {
	ExternalID   string                   `json:"external_id"`
	Type         string                   `json:"type"`
	Requirements []model.RequirementInput `json:"requirements"`
}

type CreateMember struct {
	Type         string                   `json:"type"`
	ExternalID   string                   `json:"external_id"`
	Requirements []model.RequirementInput `json:"requirements"`
}

type CreateNotification struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
