package relay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/xeipuuv/gojsonschema"
)

const payloadSchema = `{
  "type": "object",
  "required": ["firstName", "lastName", "email", "phone", "checkIn", "checkOut", "room", "adults"],
  "properties": {
    "firstName":       {"type": "string", "minLength": 1, "maxLength": 100},
    "lastName":        {"type": "string", "minLength": 1, "maxLength": 100},
    "email":           {"type": "string", "format": "email"},
    "phone":           {"type": "string", "minLength": 1, "maxLength": 40},
    "checkIn":         {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "checkOut":        {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "room":            {"type": "string", "minLength": 1, "maxLength": 100},
    "adults":          {"type": "integer", "minimum": 1, "maximum": 6},
    "children":        {"type": "integer", "minimum": 0, "maximum": 4},
    "specialRequests": {"type": "string", "maxLength": 2000},
    "reference":       {"type": "string", "pattern": "^LPH-[1-9][0-9]{5}$"},
    "occasion":        {"type": "string", "maxLength": 40},
    "receiveOffers":   {"type": "boolean"}
  }
}`

var schema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(payloadSchema))
	if err != nil {
		panic(fmt.Sprintf("relay payload schema: %v", err))
	}
	return s
}()

// SchemaError lists every schema violation in the request body.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid payload: " + strings.Join(e.Problems, "; ")
}

// ValidatePayload checks raw against the relay schema and decodes it.
func ValidatePayload(raw []byte) (notify.Payload, error) {
	var p notify.Payload

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return p, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		se := &SchemaError{}
		for _, desc := range result.Errors() {
			se.Problems = append(se.Problems, desc.String())
		}
		return p, se
	}

	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("invalid JSON: %w", err)
	}
	return p, nil
}
