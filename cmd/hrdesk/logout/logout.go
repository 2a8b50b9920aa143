package logout

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/credential"
	"hrdesk/pkg/portal"
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
	Use:   "logout",
	Short: "Logs out of the HR portal from your terminal",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionToken, err := credential.Get(credential.KeySessionToken)
		if err != nil {
			return fmt.Errorf("failed to get a session token: %s", err)
		}

		portalUrl := viper.GetString("portal-url")
		client, err := portal.NewClient(portal.NewClientOpts{
			PortalUrl: portalUrl,
			BearerAuth: &portal.NewClientBearerAuthOpts{
				Token: sessionToken,
			},
			Id: "hrdesk/logout",
		})
		if err != nil {
			return fmt.Errorf("failed to create portal client: %s", err)
		}

		sessionId := ""
		deleteSessionOutput, err := client.DeleteSessionV1()
		if err != nil {
			if errors.Is(err, portal.ErrorAuthRequired) || errors.Is(err, portal.ErrorSessionExpired) {
				logrus.Infof("existing session was invalid, please login again")
			} else if portal.IsTransportError(err) {
				logrus.Warnf("couldn't reach the portal, removing the local credential anyway")
			} else {
				return fmt.Errorf("failed to delete session: %s", err)
			}
		} else {
			sessionId = deleteSessionOutput.Data.SessionId
		}

		if err := credential.Delete(credential.KeySessionToken); err != nil {
			return fmt.Errorf("failed to remove the session credential, please do it yourself: %s", err)
		}

		if sessionId != "" {
			fmt.Printf("\n%s\nSession ID '%s' is now closed\n", cli.Logo, sessionId)
		} else {
			fmt.Printf("\n%s\nYour session is now closed\n", cli.Logo)
		}
		fmt.Printf("See you again <3\n")
		return nil
	},
}
