package sdk

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user"`
}

type NavigationItem struct {
	AppID       string `json:"app_id"`
	Label       string `json:"label"`
	AccessLevel string `json:"access_level"`
	SortOrder   int    `json:"sort_order"`
}

// NavigationPayload is the caller's menu as the server sees it. JobRoleID
// names whose menu it is.
type NavigationPayload struct {
	JobRoleID string           `json:"job_role_id"`
	Entries   []NavigationItem `json:"data"`
}

type Employee struct {
	ID           string `json:"emp_int_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"dept_id"`
}

type Department struct {
	ID   string `json:"dept_id"`
	Name string `json:"text"`
}

type Asset struct {
	ID           string `json:"asset_id"`
	Description  string `json:"description"`
	Type         string `json:"asset_type"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"current_status"`
}

// AssignAssetRequest targets exactly one of EmployeeID or DepartmentID.
type AssignAssetRequest struct {
	AssetID      string `json:"asset_id"`
	EmployeeID   string `json:"employee_int_id,omitempty"`
	DepartmentID string `json:"dept_id,omitempty"`
	Note         string `json:"note,omitempty"`
}

type AssignmentRecord struct {
	ID           string `json:"asset_assign_id"`
	AssetID      string `json:"asset_id"`
	EmployeeID   string `json:"employee_int_id,omitempty"`
	DepartmentID string `json:"dept_id,omitempty"`
	Action       string `json:"action"`
	ActionOn     string `json:"action_on"`
}

type BreakdownReport struct {
	AssetID     string `json:"asset_id"`
	ReasonCode  string `json:"reason_code"`
	Description string `json:"description"`
	ReportedBy  string `json:"reported_by,omitempty"`
}

type MaintenanceSchedule struct {
	AssetID     string `json:"asset_id"`
	PlannedDate string `json:"planned_date"`
	VendorID    string `json:"vendor_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type Acknowledgement struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
