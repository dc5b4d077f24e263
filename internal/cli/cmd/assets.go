package cmd

import (
	"context"
	"fmt"
	"time"

	"assetmobile/internal/cli/ui"
	"assetmobile/internal/domain"
	"assetmobile/pkg/sdk"

	"github.com/spf13/cobra"
)

var (
	assetsInteractive bool
	assetsRefresh     time.Duration

	assignEmployee   string
	assignDepartment string
	assignNote       string

	breakdownReason      string
	breakdownDescription string

	maintenanceDate   string
	maintenanceVendor string
	maintenanceNotes  string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Browse and assign assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppAssets, domain.AccessDisplay)
		if assetsInteractive {
			fetch := func() ([]sdk.Asset, error) { return Container.Client.ListAssets(ctx) }
			if err := ui.RunAssetTable(fetch, Container.Client.BaseURL(), assetsRefresh); err != nil {
				fatal("Error running asset table", err)
			}
			return
		}
		handleListAssets(ctx)
	},
}

var assetsShowCmd = &cobra.Command{
	Use:   "show [assetId]",
	Short: "Show one asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppAssets, domain.AccessDisplay)
		a, err := Container.Client.GetAsset(ctx, args[0])
		if err != nil {
			fatal("Error fetching asset", err)
		}
		fmt.Printf("ID:          %s\n", a.ID)
		fmt.Printf("Description: %s\n", a.Description)
		fmt.Printf("Type:        %s\n", a.Type)
		fmt.Printf("Serial:      %s\n", a.SerialNumber)
		fmt.Printf("Status:      %s\n", a.Status)
	},
}

var assetsAssignCmd = &cobra.Command{
	Use:   "assign [assetId]",
	Short: "Assign an asset to an employee or a department",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppAssignment, domain.AccessFull)
		ack, err := Container.Client.AssignAsset(ctx, sdk.AssignAssetRequest{
			AssetID:      args[0],
			EmployeeID:   assignEmployee,
			DepartmentID: assignDepartment,
			Note:         assignNote,
		})
		if err != nil {
			fatal("Error assigning asset", err)
		}
		printAck("Asset assigned", ack)
	},
}

var assetsUnassignCmd = &cobra.Command{
	Use:   "unassign [assignmentId]",
	Short: "End an assignment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppAssignment, domain.AccessFull)
		if err := Container.Client.UnassignAsset(ctx, args[0]); err != nil {
			fatal("Error unassigning asset", err)
		}
		fmt.Println("Assignment ended.")
	},
}

var assetsHistoryCmd = &cobra.Command{
	Use:   "history [assetId]",
	Short: "Show the assignment history of an asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppAssignment, domain.AccessDisplay)
		records, err := Container.Client.AssignmentHistory(ctx, args[0])
		if err != nil {
			fatal("Error fetching history", err)
		}
		if len(records) == 0 {
			fmt.Println("No assignment history.")
			return
		}
		fmt.Printf("%-12s %-10s %-14s %-12s %s\n", "ID", "ACTION", "EMPLOYEE", "DEPARTMENT", "ON")
		for _, r := range records {
			fmt.Printf("%-12s %-10s %-14s %-12s %s\n", r.ID, r.Action, r.EmployeeID, r.DepartmentID, r.ActionOn)
		}
	},
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Employee directory",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppEmployees, domain.AccessDisplay)
		employees, err := Container.Client.ListEmployees(ctx)
		if err != nil {
			fatal("Error listing employees", err)
		}
		fmt.Printf("%-12s %-24s %-28s %s\n", "ID", "NAME", "EMAIL", "DEPARTMENT")
		for _, e := range employees {
			fmt.Printf("%-12s %-24s %-28s %s\n", e.ID, e.Name, e.Email, e.DepartmentID)
		}
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Department directory",
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppDepartments, domain.AccessDisplay)
		departments, err := Container.Client.ListDepartments(ctx)
		if err != nil {
			fatal("Error listing departments", err)
		}
		for _, d := range departments {
			fmt.Printf("%-12s %s\n", d.ID, d.Name)
		}
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Breakdown reports",
}

var breakdownReportCmd = &cobra.Command{
	Use:   "report [assetId]",
	Short: "Report a broken asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppBreakdown, domain.AccessFull)
		report, err := newBreakdownReport(ctx, args[0])
		if err != nil {
			fatal("Error reading session", err)
		}
		ack, err := Container.Client.ReportBreakdown(ctx, report)
		if err != nil {
			fatal("Error reporting breakdown", err)
		}
		printAck("Breakdown reported", ack)
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Maintenance scheduling",
}

var maintenanceScheduleCmd = &cobra.Command{
	Use:   "schedule [assetId]",
	Short: "Schedule maintenance for an asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireAccess(ctx, domain.AppMaintenance, domain.AccessFull)
		if _, err := time.Parse(time.DateOnly, maintenanceDate); err != nil {
			fatal("Invalid --date, expected YYYY-MM-DD", err)
		}
		ack, err := Container.Client.ScheduleMaintenance(ctx, sdk.MaintenanceSchedule{
			AssetID:     args[0],
			PlannedDate: maintenanceDate,
			VendorID:    maintenanceVendor,
			Notes:       maintenanceNotes,
		})
		if err != nil {
			fatal("Error scheduling maintenance", err)
		}
		printAck("Maintenance scheduled", ack)
	},
}

func init() {
	assetsListCmd.Flags().BoolVarP(&assetsInteractive, "interactive", "i", false, "Open a live table")
	assetsListCmd.Flags().DurationVar(&assetsRefresh, "refresh", 10*time.Second, "Refresh interval for the live table")

	assetsAssignCmd.Flags().StringVar(&assignEmployee, "employee", "", "Employee id")
	assetsAssignCmd.Flags().StringVar(&assignDepartment, "department", "", "Department id")
	assetsAssignCmd.Flags().StringVar(&assignNote, "note", "", "Optional note")
	assetsAssignCmd.MarkFlagsMutuallyExclusive("employee", "department")
	assetsAssignCmd.MarkFlagsOneRequired("employee", "department")

	breakdownReportCmd.Flags().StringVar(&breakdownReason, "reason", "", "Reason code")
	breakdownReportCmd.Flags().StringVar(&breakdownDescription, "description", "", "What happened")
	breakdownReportCmd.MarkFlagRequired("reason")

	maintenanceScheduleCmd.Flags().StringVar(&maintenanceDate, "date", "", "Planned date (YYYY-MM-DD)")
	maintenanceScheduleCmd.Flags().StringVar(&maintenanceVendor, "vendor", "", "Vendor id")
	maintenanceScheduleCmd.Flags().StringVar(&maintenanceNotes, "notes", "", "Notes")
	maintenanceScheduleCmd.MarkFlagRequired("date")

	assetsCmd.AddCommand(assetsListCmd, assetsShowCmd, assetsAssignCmd, assetsUnassignCmd, assetsHistoryCmd)
	employeesCmd.AddCommand(employeesListCmd)
	departmentsCmd.AddCommand(departmentsListCmd)
	breakdownCmd.AddCommand(breakdownReportCmd)
	maintenanceCmd.AddCommand(maintenanceScheduleCmd)

	RootCmd.AddCommand(assetsCmd, employeesCmd, departmentsCmd, breakdownCmd, maintenanceCmd)
}

func handleListAssets(ctx context.Context) {
	assets, err := Container.Client.ListAssets(ctx)
	if err != nil {
		fatal("Error listing assets", err)
	}
	if len(assets) == 0 {
		fmt.Println("No assets found.")
		return
	}
	fmt.Printf("%-12s %-28s %-14s %-16s %s\n", "ID", "DESCRIPTION", "TYPE", "SERIAL", "STATUS")
	for _, a := range assets {
		fmt.Printf("%-12s %-28s %-14s %-16s %s\n", a.ID, a.Description, a.Type, a.SerialNumber, a.Status)
	}
}

// newBreakdownReport stamps the report with the signed-in user.
func newBreakdownReport(ctx context.Context, assetID string) (sdk.BreakdownReport, error) {
	profile, err := Container.Session.UserData(ctx)
	if err != nil {
		return sdk.BreakdownReport{}, err
	}
	return sdk.BreakdownReport{
		AssetID:     assetID,
		ReasonCode:  breakdownReason,
		Description: breakdownDescription,
		ReportedBy:  profile.ID(),
	}, nil
}

func printAck(what string, ack *sdk.Acknowledgement) {
	if ack == nil || (ack.Message == "" && ack.ID == "") {
		fmt.Printf("%s.\n", what)
		return
	}
	if ack.ID != "" {
		fmt.Printf("%s (id %s). %s\n", what, ack.ID, ack.Message)
		return
	}
	fmt.Printf("%s. %s\n", what, ack.Message)
}
