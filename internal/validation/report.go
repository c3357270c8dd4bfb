package validation

import "sort"

// FieldMessage is a single user-facing validation failure tied to a field.
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// messages maps field+code pairs to the text shown in forms. Unknown pairs fall
// back to a generic per-code sentence so new validators degrade gracefully.
var messages = map[string]string{
	"type/required":                "Plot Type is required.",
	"status/required":              "Status is required.",
	"status/invalid_value":         "Status must be one of Available, Reserved, Occupied or Maintenance.",
	"capacity/required":            "Capacity is required.",
	"capacity/must_be_positive":    "Capacity must be a positive number.",
	"ownerClientId/required":       "An owner must be assigned for plots with this status.",
	"ownerClientId/unknown_client": "The selected owner does not exist.",
	"reservationDate/required":     "Reservation Date is required for reserved plots.",
}

var codeFallbacks = map[string]string{
	"required":         "This field is required.",
	"must_be_positive": "Must be a positive number.",
	"invalid_value":    "Invalid value.",
	"unknown_client":   "The selected client does not exist.",
}

// Report renders every violation as a field-attributable message, sorted by
// field name so callers (and tests) see a stable order.
func (v Violations) Report() []FieldMessage {
	if len(v) == 0 {
		return nil
	}
	out := make([]FieldMessage, 0, len(v))
	for field, code := range v {
		msg, ok := messages[field+"/"+code]
		if !ok {
			msg = codeFallbacks[code]
		}
		if msg == "" {
			msg = "Invalid value."
		}
		out = append(out, FieldMessage{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
