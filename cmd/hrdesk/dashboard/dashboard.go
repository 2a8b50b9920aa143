package dashboard

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/session"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "portal-url",
		DefaultValue: common.DefaultPortalUrl,
		Usage:        "defines the url where the HR portal service is accessible at",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "dashboard",
	Short: "Displays the dashboard for your role",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		authContext, err := cli.RequireAuth(viper.GetString("portal-url"), "hrdesk/dashboard")
		if err != nil {
			return err
		}
		user := authContext.Session.User

		fmt.Printf("%s\n", cli.Logo)

		switch user.Role {
		case session.RoleAdmin:
			return showAdminDashboard(authContext, viper.GetString("output"))
		case session.RoleEmployee:
			return showEmployeeDashboard(authContext, viper.GetString("output"))
		}
		return fmt.Errorf("no dashboard available for role[%s]", user.Role)
	},
}

func showAdminDashboard(authContext *cli.AuthContext, outputFormat string) error {
	output, err := authContext.Client.GetAdminDashboardV1()
	if err != nil {
		return fmt.Errorf("failed to fetch the admin dashboard: %s", err)
	}
	data := output.Data

	if outputFormat != cli.OutputFormatText {
		encoded, err := cli.EncodeOutput(data, outputFormat)
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	}

	fmt.Printf("Admin dashboard (%s)\n\n", session.RouteAdminDashboard)
	table := cli.NewTable(cli.NewTableOpts{
		Headers: []string{"metric", "value"},
		Rows: func(t *cli.Table) error {
			t.NewRow("headcount", data.Headcount)
			t.NewRow("pending payrolls", data.PendingPayrolls)
			t.NewRow("open violations", data.OpenViolations)
			t.NewRow("pending requests", data.PendingRequests)
			t.NewRow("attendance rate", fmt.Sprintf("%.1f%%", data.AttendanceRate*100))
			return nil
		},
	})
	fmt.Println(table.Render().GetString())
	return nil
}

func showEmployeeDashboard(authContext *cli.AuthContext, outputFormat string) error {
	output, err := authContext.Client.GetEmployeeDashboardV1()
	if err != nil {
		return fmt.Errorf("failed to fetch the employee dashboard: %s", err)
	}
	data := output.Data

	if outputFormat != cli.OutputFormatText {
		encoded, err := cli.EncodeOutput(data, outputFormat)
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	}

	fmt.Printf("Employee dashboard (%s)\n\n", session.RouteEmployeeDashboard)
	table := cli.NewTable(cli.NewTableOpts{
		Headers: []string{"metric", "value"},
		Rows: func(t *cli.Table) error {
			t.NewRow("attendance days", data.AttendanceDays)
			t.NewRow("pending requests", data.PendingRequests)
			t.NewRow("incentives total", fmt.Sprintf("%.2f", data.IncentivesTotal))
			t.NewRow("deductions total", fmt.Sprintf("%.2f", data.DeductionsTotal))
			t.NewRow("active benefits", data.BenefitsActive)
			return nil
		},
	})
	fmt.Println(table.Render().GetString())
	return nil
}
