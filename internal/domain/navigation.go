package domain

import "strings"

// AccessLevel is the privilege attached to a navigation entry.
type AccessLevel string

const (
	AccessDisplay AccessLevel = "D"
	AccessFull    AccessLevel = "A"
	AccessSuper   AccessLevel = "S"
)

var accessRanks = map[AccessLevel]int{
	AccessDisplay: 1,
	AccessFull:    2,
	AccessSuper:   3,
}

func ParseAccessLevel(s string) AccessLevel {
	return AccessLevel(strings.ToUpper(strings.TrimSpace(s)))
}

// Rank orders levels; unknown levels rank 0.
func (l AccessLevel) Rank() int {
	return accessRanks[l]
}

// Satisfies reports whether l is at least required. An unknown required
// level is never satisfied.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	need := required.Rank()
	if need == 0 {
		return false
	}
	return l.Rank() >= need
}

type NavigationEntry struct {
	AppID       string      `json:"app_id"`
	Label       string      `json:"label"`
	AccessLevel AccessLevel `json:"access_level"`
	SortOrder   int         `json:"sort_order"`
}

// Screen identifiers as the backend names them in navigation entries.
const (
	AppAssets      = "ASSETS"
	AppAssignment  = "ASSET_ASSIGNMENT"
	AppEmployees   = "EMPLOYEES"
	AppDepartments = "DEPARTMENTS"
	AppBreakdown   = "BREAKDOWN"
	AppMaintenance = "MAINTENANCE"
)
