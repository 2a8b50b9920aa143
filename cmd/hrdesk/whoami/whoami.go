package whoami

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/auth"
	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/credential"
	"hrdesk/internal/session"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "portal-url",
		DefaultValue: common.DefaultPortalUrl,
		Usage:        "defines the url where the HR portal service is accessible at",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "offline",
		DefaultValue: false,
		Usage:        "decodes the stored session token locally instead of asking the portal",
		Type:         cli.FlagTypeBool,
	},
}

func init() {
	flags.AddToCommand(Command)
}

type whoamiOutput struct {
	Id        string `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	Dashboard string `json:"dashboard" yaml:"dashboard"`
}

var Command = &cobra.Command{
	Use:   "whoami",
	Short: "Displays the account you are currently logged in as",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var output whoamiOutput

		if viper.GetBool("offline") {
			sessionToken, err := credential.Get(credential.KeySessionToken)
			if err != nil {
				fmt.Println("⚠️ You must be logged-in to run this command")
				return fmt.Errorf("not authenticated")
			}
			claims, err := auth.InspectToken(sessionToken)
			if err != nil {
				if errors.Is(err, auth.ErrorJwtTokenExpired) {
					fmt.Println("⚠️ Your session has expired, please login again using `hrdesk login`")
					return fmt.Errorf("session expired")
				}
				return fmt.Errorf("failed to inspect the stored session token: %s", err)
			}
			role, err := session.ParseRole(claims.Role)
			if err != nil {
				return fmt.Errorf("the stored session token carries an unknown role: %s", err)
			}
			output = whoamiOutput{
				Id:        claims.UserId,
				Email:     claims.Email,
				Role:      string(role),
				Dashboard: string(session.DashboardRoute(role)),
			}
		} else {
			authContext, err := cli.RequireAuth(viper.GetString("portal-url"), "hrdesk/whoami")
			if err != nil {
				return err
			}
			user := authContext.Session.User
			output = whoamiOutput{
				Id:        user.Id,
				Name:      user.Name,
				Email:     user.Email,
				Role:      string(user.Role),
				Dashboard: string(session.DashboardRoute(user.Role)),
			}
		}

		switch outputFormat := viper.GetString("output"); outputFormat {
		case cli.OutputFormatText:
			table := cli.NewTable(cli.NewTableOpts{
				Headers: []string{"field", "value"},
				Rows: func(t *cli.Table) error {
					t.NewRow("id", output.Id)
					if output.Name != "" {
						t.NewRow("name", output.Name)
					}
					t.NewRow("email", output.Email)
					t.NewRow("role", output.Role)
					t.NewRow("dashboard", output.Dashboard)
					return nil
				},
			})
			fmt.Println(table.Render().GetString())
		default:
			encoded, err := cli.EncodeOutput(output, outputFormat)
			if err != nil {
				return err
			}
			fmt.Println(encoded)
		}
		return nil
	},
}
