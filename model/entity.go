/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"strings"
	"time"
)

type EntityType string

const (
	EntityIndividual EntityType = "INDIVIDUAL"
	EntityBusiness   EntityType = "BUSINESS"
)

// Valid reports whether t is one of the entity types the compliance API accepts.
func (t EntityType) Valid() bool {
	return t == EntityIndividual || t == EntityBusiness
}

// ParseEntityType normalizes user input ("individual", " Business ") into an EntityType.
func ParseEntityType(s string) EntityType {
	return EntityType(strings.ToUpper(strings.TrimSpace(s)))
}

type RequirementLevel string

const (
	LevelRequired  RequirementLevel = "REQUIRED"
	LevelOptional  RequirementLevel = "OPTIONAL"
	LevelPreferred RequirementLevel = "PREFERRED"
)

type ValueType string

const (
	ValueBoolean ValueType = "BOOLEAN"
	ValueNumeric ValueType = "NUMERIC"
	ValueString  ValueType = "STRING"
	ValueFile    ValueType = "FILE"
	ValueJSON    ValueType = "JSON"
)

// SubmissionStatus is driven entirely by the upstream service; unknown values are kept verbatim.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Known reports whether the status is one the UI has a dedicated rendering for.
func (s SubmissionStatus) Known() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// Requirement is declarative and fetched per feature.
type Requirement struct {
	RequirementID    string           `json:"requirementId"`
	RequirementSlug  string           `json:"requirementSlug"`
	RequirementLevel RequirementLevel `json:"requirementLevel"`
	ValueType        ValueType        `json:"valueType"`
	AssociatedEntity string           `json:"associatedEntity,omitempty"`
}

type SubmittedRequirement struct {
	SubmissionID string           `json:"submissionId"`
	Requirement  Requirement      `json:"requirement"`
	Status       SubmissionStatus `json:"status"`
	Value        interface{}      `json:"value,omitempty"`
	MemberID     string           `json:"memberId,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type Entity struct {
	ID                    string                 `json:"id"`
	ExternalID            string                 `json:"externalId"`
	BusinessID            string                 `json:"businessId,omitempty"`
	Type                  EntityType             `json:"type"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
	SubmittedRequirements []SubmittedRequirement `json:"submittedRequirements,omitempty"`
}

// RequirementInput is one requirement value sent along with an entity creation.
type RequirementInput struct {
	RequirementSlug string      `json:"requirementSlug"`
	Value           interface{} `json:"value"`
}

type CreateEntity struct {
	ExternalID   string             `json:"externalId"`
	Type         EntityType         `json:"type"`
	Requirements []RequirementInput `json:"requirements"`
}

// Member is a person attached to a business entity (director, UBO...).
type Member struct {
	ID         string                 `json:"id"`
	EntityID   string                 `json:"entityId,omitempty"`
	Type       string                 `json:"type,omitempty"`
	ExternalID string                 `json:"externalId,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type CreateMember struct {
	Type         string             `json:"type"`
	ExternalID   string             `json:"externalId,omitempty"`
	Requirements []RequirementInput `json:"requirements,omitempty"`
}
