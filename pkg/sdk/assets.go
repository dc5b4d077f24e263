package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var ErrInvalidAssignment = errors.New("assignment needs exactly one of employee or department")

func (c *Client) ListAssets(ctx context.Context) ([]Asset, error) {
	var raw any
	if err := c.get(ctx, "/api/assets", &raw); err != nil {
		return nil, err
	}
	var assets []Asset
	for _, m := range listPayload(raw, "data", "assets", "rows") {
		assets = append(assets, normalizeAsset(m))
	}
	return assets, nil
}

func (c *Client) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var raw any
	if err := c.get(ctx, "/api/assets/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	asset := normalizeAsset(objectPayload(raw, "data", "asset"))
	return &asset, nil
}

func (c *Client) AssignAsset(ctx context.Context, req AssignAssetRequest) (*Acknowledgement, error) {
	if (req.EmployeeID == "") == (req.DepartmentID == "") {
		return nil, ErrInvalidAssignment
	}
	if req.AssetID == "" {
		return nil, errors.New("asset id is required")
	}
	var raw any
	if err := c.post(ctx, "/api/asset-assignments", req, &raw); err != nil {
		return nil, err
	}
	return normalizeAck(raw), nil
}

func (c *Client) UnassignAsset(ctx context.Context, assignmentID string) error {
	return c.delete(ctx, "/api/asset-assignments/"+url.PathEscape(assignmentID))
}

func (c *Client) AssignmentHistory(ctx context.Context, assetID string) ([]AssignmentRecord, error) {
	var raw any
	path := fmt.Sprintf("/api/asset-assignments/asset/%s/history", url.PathEscape(assetID))
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}
	var records []AssignmentRecord
	for _, m := range listPayload(raw, "data", "history") {
		records = append(records, normalizeAssignment(m))
	}
	return records, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var raw any
	if err := c.get(ctx, "/api/employees", &raw); err != nil {
		return nil, err
	}
	var employees []Employee
	for _, m := range listPayload(raw, "data", "employees", "rows") {
		employees = append(employees, normalizeEmployee(m))
	}
	return employees, nil
}

func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var raw any
	if err := c.get(ctx, "/api/departments", &raw); err != nil {
		return nil, err
	}
	var departments []Department
	for _, m := range listPayload(raw, "data", "departments", "rows") {
		departments = append(departments, normalizeDepartment(m))
	}
	return departments, nil
}

func (c *Client) ReportBreakdown(ctx context.Context, report BreakdownReport) (*Acknowledgement, error) {
	if report.AssetID == "" {
		return nil, errors.New("asset id is required")
	}
	var raw any
	if err := c.post(ctx, "/api/breakdowns", report, &raw); err != nil {
		return nil, err
	}
	return normalizeAck(raw), nil
}

func (c *Client) ScheduleMaintenance(ctx context.Context, schedule MaintenanceSchedule) (*Acknowledgement, error) {
	if schedule.AssetID == "" || schedule.PlannedDate == "" {
		return nil, errors.New("asset id and planned date are required")
	}
	var raw any
	if err := c.put(ctx, "/api/maintenance-schedules/"+url.PathEscape(schedule.AssetID), schedule, &raw); err != nil {
		return nil, err
	}
	return normalizeAck(raw), nil
}
