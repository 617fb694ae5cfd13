package notion

import (
	"fmt"
	"strconv"
	"strings"
)

// truthyValues are the accepted spellings of a true checkbox on the write
// path. Anything else writes false.
var truthyValues = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
}

// BuildPayload converts a flat string value into the typed update fragment the
// Notion API expects for the given property type.
//
// A nil payload with a nil error means there is nothing to write: the value
// was empty or whitespace-only, or the property type does not support writes
// (formula, rollup, people, and the other computed or store-managed kinds).
// A non-nil error marks a per-field formatting failure (currently only number
// parsing); callers log it and drop the field rather than abort the write.
func BuildPayload(propType PropertyType, value string) (map[string]any, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	switch propType {
	case TypeTitle, TypeRichText:
		return map[string]any{
			string(propType): []any{
				map[string]any{"text": map[string]any{"content": value}},
			},
		}, nil
	case TypeCheckbox:
		return map[string]any{"checkbox": truthyValues[strings.ToLower(value)]}, nil
	case TypeNumber:
		if strings.Contains(value, ".") {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("parse number %q: %w", value, err)
			}
			return map[string]any{"number": f}, nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", value, err)
		}
		return map[string]any{"number": n}, nil
	case TypeSelect:
		return map[string]any{"select": map[string]any{"name": value}}, nil
	case TypeStatus:
		return map[string]any{"status": map[string]any{"name": value}}, nil
	case TypeMultiSelect:
		options := []any{}
		for _, opt := range strings.Split(value, ",") {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}
			options = append(options, map[string]any{"name": opt})
		}
		return map[string]any{"multi_select": options}, nil
	case TypeDate:
		return map[string]any{"date": map[string]any{"start": value}}, nil
	case TypeURL:
		return map[string]any{"url": value}, nil
	case TypeEmail:
		return map[string]any{"email": value}, nil
	case TypePhoneNumber:
		return map[string]any{"phone_number": value}, nil
	}

	// Everything else is write-unsupported.
	return nil, nil
}
