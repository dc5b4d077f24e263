package sdk

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The backend is not consistent about field names across endpoints. Every
// "name || full_name || ..." guess lives in this file.

func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = strings.TrimSpace(t)
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			s = t.String()
		case bool:
			s = strconv.FormatBool(t)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	s := field(m, keys...)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// listPayload accepts a bare array or an envelope holding one under a known key.
func listPayload(v any, keys ...string) []map[string]any {
	if list := objects(v); list != nil {
		return list
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if list := objects(m[k]); list != nil {
			return list
		}
	}
	return nil
}

func objectPayload(v any, keys ...string) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if inner, ok := m[k].(map[string]any); ok {
			return inner
		}
	}
	return m
}

func normalizeLogin(v any) LoginResponse {
	m, _ := v.(map[string]any)
	resp := LoginResponse{
		Token: field(m, "token", "access_token", "accessToken"),
	}
	for _, k := range []string{"user", "data", "profile"} {
		if u, ok := m[k].(map[string]any); ok {
			resp.User = u
			break
		}
	}
	return resp
}

func normalizeNavigation(v any) NavigationPayload {
	var p NavigationPayload
	if m, ok := v.(map[string]any); ok {
		p.JobRoleID = field(m, "job_role_id", "jobRoleId", "role_id")
	}
	for _, m := range listPayload(v, "data", "navigation", "items") {
		p.Entries = append(p.Entries, NavigationItem{
			AppID:       field(m, "app_id", "appId", "app_code"),
			Label:       field(m, "label", "label_name", "app_name", "name"),
			AccessLevel: field(m, "access_level", "accessLevel", "access"),
			SortOrder:   intField(m, "sort_order", "sortOrder", "seq"),
		})
	}
	return p
}

func normalizeEmployee(m map[string]any) Employee {
	return Employee{
		ID:           field(m, "emp_int_id", "employee_id", "id"),
		Name:         field(m, "name", "full_name", "employee_name"),
		Email:        field(m, "email", "email_id"),
		DepartmentID: field(m, "dept_id", "department_id"),
	}
}

func normalizeDepartment(m map[string]any) Department {
	return Department{
		ID:   field(m, "dept_id", "department_id", "id"),
		Name: field(m, "text", "dept_name", "department_name", "name"),
	}
}

func normalizeAsset(m map[string]any) Asset {
	return Asset{
		ID:           field(m, "asset_id", "id"),
		Description:  field(m, "description", "text", "asset_name", "name"),
		Type:         field(m, "asset_type_name", "asset_type", "type"),
		SerialNumber: field(m, "serial_number", "serial_no"),
		Status:       field(m, "current_status", "status"),
	}
}

func normalizeAssignment(m map[string]any) AssignmentRecord {
	return AssignmentRecord{
		ID:           field(m, "asset_assign_id", "assignment_id", "id"),
		AssetID:      field(m, "asset_id"),
		EmployeeID:   field(m, "employee_int_id", "emp_int_id", "employee_id"),
		DepartmentID: field(m, "dept_id", "department_id"),
		Action:       field(m, "action"),
		ActionOn:     field(m, "action_on", "assigned_on", "created_on"),
	}
}

func normalizeAck(v any) *Acknowledgement {
	m := objectPayload(v, "data", "result")
	ack := &Acknowledgement{
		Message: field(m, "message", "msg", "status"),
		ID:      field(m, "id", "insertId", "asset_assign_id", "bd_id", "ams_id"),
	}
	if outer, ok := v.(map[string]any); ok && ack.Message == "" {
		ack.Message = field(outer, "message", "msg")
	}
	return ack
}
