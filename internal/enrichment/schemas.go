// internal/enrichment/schemas.go
package enrichment

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"listing-monitor/internal/common/errors"
)

// Response schemas sent to the AI service and enforced again locally before a
// structured result ever reaches the caller.

const sentimentSchema = `{
	"type": "object",
	"properties": {
		"overallSentiment": {
			"type": "string",
			"description": "The overall mood of the customer feedback."
		},
		"keyPainPoints": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Specific issues mentioned by multiple customers."
		},
		"positiveHighlights": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Positive aspects praised in the reviews."
		}
	},
	"required": ["overallSentiment", "keyPainPoints", "positiveHighlights"]
}`

const discoverySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"address": {"type": "string"},
			"phone": {"type": "string"},
			"rating": {"type": "number", "minimum": 3.0, "maximum": 5.0},
			"reviewCount": {"type": "number"},
			"status": {"type": "string", "enum": ["synced"]},
			"coordinates": {
				"type": "object",
				"properties": {
					"lat": {"type": "number"},
					"lng": {"type": "number"}
				},
				"required": ["lat", "lng"]
			},
			"hours": {
				"type": "object",
				"properties": {
					"monday": {"type": "string"},
					"tuesday": {"type": "string"},
					"wednesday": {"type": "string"},
					"thursday": {"type": "string"},
					"friday": {"type": "string"},
					"saturday": {"type": "string"},
					"sunday": {"type": "string"}
				},
				"required": ["monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"]
			}
		},
		"required": ["name", "address", "phone", "rating", "reviewCount", "status", "coordinates", "hours"]
	}
}`

const lookupSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"address": {"type": "string"},
		"phone": {"type": "string"},
		"rating": {"type": "number"},
		"reviewCount": {"type": "number"},
		"coordinates": {
			"type": "object",
			"properties": {
				"lat": {"type": "number"},
				"lng": {"type": "number"}
			},
			"required": ["lat", "lng"]
		}
	},
	"required": ["name", "address", "phone", "rating", "reviewCount", "coordinates"]
}`

// decodeValidated validates raw JSON from the service against the schema and
// unmarshals it into out. Malformed or off-schema payloads come back as a
// schema validation error, never a panic.
func decodeValidated(raw, schema string, out interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewSchemaValidationFailedError(err.Error())
	}

	if !result.Valid() {
		details := ""
		for _, e := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += e.String()
		}
		return errors.NewSchemaValidationFailedError(details)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.NewSchemaValidationFailedError(fmt.Sprintf("unmarshal: %v", err))
	}
	return nil
}
