package payflow

import (
	"encoding/json"
	"strings"
)

// maskSuffixLen is how many trailing characters survive masking. The
// redacted prefix is replaced by an equal-length run of '*', which keeps
// the transform idempotent on already-masked values.
const maskSuffixLen = 4

// sensitiveFields are keys whose string values are masked before a payload
// leaves the client boundary: tax identifier variants, phone variants and
// the application key.
var sensitiveFields = map[string]struct{}{
	"taxId":        {},
	"taxID":        {},
	"tax_id":       {},
	"cpf":          {},
	"cnpj":         {},
	"cpfCnpj":      {},
	"phone":        {},
	"cellphone":    {},
	"phoneNumber":  {},
	"phone_number": {},
	"apiKey":       {},
	"api_key":      {},
}

// taxIDObjectFields are keys that may carry a structured tax identifier
// ({"type": "cpf", "value": "..."}). Only the value sub-field is masked;
// siblings such as the type discriminator are preserved.
var taxIDObjectFields = map[string]struct{}{
	"taxId":  {},
	"taxID":  {},
	"tax_id": {},
}

// Mask returns a copy of v with every sensitive leaf string redacted. It is
// pure: the argument is never mutated, and non-container scalars are
// returned unchanged. v is expected to be a decoded JSON value (nil, bool,
// float64, string, []any, map[string]any); each variant is handled
// explicitly.
func Mask(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = maskField(k, elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Mask(elem)
		}
		return out
	default:
		return v
	}
}

func maskField(key string, v any) any {
	if _, sensitive := sensitiveFields[key]; sensitive {
		if s, ok := v.(string); ok {
			return maskString(s)
		}
	}
	if _, taxObj := taxIDObjectFields[key]; taxObj {
		if obj, ok := v.(map[string]any); ok {
			return maskTaxIDObject(obj)
		}
	}
	return Mask(v)
}

func maskTaxIDObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if k == "value" {
			if s, ok := v.(string); ok {
				out[k] = maskString(s)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// maskString keeps the trailing maskSuffixLen characters and replaces the
// rest with '*'. Values no longer than the suffix are returned unchanged.
func maskString(s string) string {
	r := []rune(s)
	if len(r) <= maskSuffixLen {
		return s
	}
	return strings.Repeat("*", len(r)-maskSuffixLen) + string(r[len(r)-maskSuffixLen:])
}

// MaskedJSON renders v as indented JSON with sensitive fields redacted.
// Call sites that echo payloads to a caller or a log sink go through here.
func MaskedJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return json.MarshalIndent(Mask(decoded), "", "  ")
}
