package read

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/notifications"
	"hrdesk/internal/store"
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
	Use:   "read <notification-id>",
	Short: "Marks a notification as read",
	Args:  cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		notificationId := args[0]

		authContext, err := cli.RequireAuth(viper.GetString("portal-url"), "hrdesk/notifications/read")
		if err != nil {
			return err
		}

		listOutput, err := authContext.Client.ListNotificationsV1()
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %s", err)
		}

		serviceLogs := make(chan common.ServiceLog, 16)
		common.StartServiceLogLoop(serviceLogs)
		defer close(serviceLogs)

		inbox := notifications.NewInbox(cli.PortalReadConfirmer{Client: authContext.Client}, serviceLogs)
		inbox.ApplySnapshot(cli.FromPortalNotifications(listOutput.Data.Notifications))

		if err := inbox.MarkAsRead(ctx, notificationId); err != nil {
			return fmt.Errorf("failed to mark notification as read: %s", err)
		}

		// cache update is best-effort
		if dbPath, err := store.DefaultPath(); err == nil {
			if cache, err := store.NewStore(dbPath); err == nil {
				defer cache.Close()
				if err := cache.MarkNotificationRead(ctx, notificationId); err != nil {
					logrus.Warnf("failed to update the notification cache: %s", err)
				}
			}
		}

		fmt.Printf("Notification '%s' is marked as read\n", notificationId)
		fmt.Printf("You have %d unread notification(s) left\n", inbox.UnreadCount())
		return nil
	},
}
