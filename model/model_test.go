package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("wf")
	assert.True(t, strings.HasPrefix(id, "wf_"))
	assert.Len(t, id, len("wf_")+36)
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("wf"))
}

func TestParseEntityType(t *testing.T) {
	assert.Equal(t, EntityIndividual, ParseEntityType(" individual "))
	assert.Equal(t, EntityBusiness, ParseEntityType("Business"))
	assert.True(t, ParseEntityType("business").Valid())
	assert.False(t, ParseEntityType("trust").Valid())
}

func TestEntityDecodesUpstreamShape(t *testing.T) {
	body := `{
		"id": "E1",
		"externalId": "customer-42",
		"type": "INDIVIDUAL",
		"createdAt": "2024-05-01T10:00:00Z",
		"updatedAt": "2024-05-01T10:00:00Z",
		"submittedRequirements": [{
			"submissionId": "S1",
			"status": "IN_REVIEW",
			"requirement": {"requirementId": "R1", "requirementSlug": "id-document", "requirementLevel": "REQUIRED", "valueType": "FILE"}
		}]
	}`

	var entity Entity
	require.NoError(t, json.Unmarshal([]byte(body), &entity))
	assert.Equal(t, "E1", entity.ID)
	assert.Equal(t, EntityIndividual, entity.Type)
	require.Len(t, entity.SubmittedRequirements, 1)

	sub := entity.SubmittedRequirements[0]
	assert.Equal(t, SubmissionStatus("IN_REVIEW"), sub.Status)
	assert.False(t, sub.Status.Known())
	assert.Equal(t, ValueFile, sub.Requirement.ValueType)
}

func TestKycLinkEmbedded(t *testing.T) {
	var widget KycLink
	require.NoError(t, json.Unmarshal([]byte(`{"provider":"SUMSUB","sdkToken":"tok"}`), &widget))
	assert.True(t, widget.Embedded())

	var hosted KycLink
	require.NoError(t, json.Unmarshal([]byte(`{"web_href":"https://verify.example.com/abc"}`), &hosted))
	assert.False(t, hosted.Embedded())
	assert.Equal(t, "https://verify.example.com/abc", hosted.WebHref)
}
