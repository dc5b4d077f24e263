package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UserProfile is the server-defined user record kept in the session.
// The backend is free to add fields; only a handful are interpreted here.
type UserProfile map[string]any

func (p UserProfile) ID() string {
	return p.Lookup("id", "user_id", "emp_int_id", "employee_id")
}

func (p UserProfile) Name() string {
	return p.Lookup("name", "full_name", "employee_name", "user_name")
}

func (p UserProfile) Email() string {
	return p.Lookup("email", "email_id")
}

func (p UserProfile) Role() string {
	return p.Lookup("role", "job_role_name", "role_name")
}

func (p UserProfile) LanguageCode() string {
	return p.Lookup("language_code", "languageCode")
}

func (p UserProfile) JobRoleID() string {
	return p.Lookup("job_role_id", "jobRoleId")
}

// Lookup returns the first non-empty value among keys, rendered as a string.
func (p UserProfile) Lookup(keys ...string) string {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			if s, ok := StringValue(v); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// StringValue renders scalar JSON values as strings. Numbers decoded as
// float64 lose their trailing ".0" so that 7 and "7" compare equal.
func StringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
