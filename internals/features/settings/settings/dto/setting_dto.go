package dto

import (
	"fmt"
	"strconv"
	"strings"

	helper "schoolms_backend/internals/helpers"
)

// UpdateGroupRequest is the raw {key: value} body of PUT /settings/:group.
// Scalars are stored as their string form.
type UpdateGroupRequest map[string]any

// Normalize trims keys/values and validates their sizes.
func (r UpdateGroupRequest) Normalize() (map[string]string, error) {
	out := make(map[string]string, len(r))
	ve := &helper.ValidationError{}
	for k, raw := range r {
		key := strings.ToLower(strings.TrimSpace(k))
		v, ok := scalarString(raw)
		if !ok {
			ve.Add(key, "The value must be a string, number or boolean.")
			continue
		}
		switch {
		case key == "":
			ve.Add("key", "Setting keys cannot be empty.")
			continue
		case len(key) > 100:
			ve.Add(key, "The key may not be greater than 100 characters.")
			continue
		case len(v) > 5000:
			ve.Add(key, "The value may not be greater than 5000 characters.")
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	if len(out) == 0 && !ve.HasErrors() {
		ve.Add("settings", "At least one setting is required.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int, int64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}
