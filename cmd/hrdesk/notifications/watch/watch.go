package watch

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/channel"
	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/credential"
	"hrdesk/internal/forward"
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
	{
		Name:         "push-addr",
		DefaultValue: common.DefaultNatsAddr,
		Usage:        "defines the host:port of the portal's push endpoint",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "slack-bot-token",
		DefaultValue: "",
		Usage:        "when set together with --slack-channel-id, forwards incoming notifications to Slack",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "slack-channel-id",
		DefaultValue: "",
		Usage:        "defines the Slack channel that incoming notifications are forwarded to",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "watch",
	Short: "Streams notifications live into your terminal",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		authContext, err := cli.RequireAuth(viper.GetString("portal-url"), "hrdesk/notifications/watch")
		if err != nil {
			return err
		}
		user := authContext.Session.User

		serviceLogs := make(chan common.ServiceLog, 64)
		common.StartServiceLogLoop(serviceLogs)
		defer close(serviceLogs)

		inbox := notifications.NewInbox(cli.PortalReadConfirmer{Client: authContext.Client}, serviceLogs)

		listOutput, err := authContext.Client.ListNotificationsV1()
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %s", err)
		}
		inbox.ApplySnapshot(cli.FromPortalNotifications(listOutput.Data.Notifications))

		var cache *store.Store
		if dbPath, err := store.DefaultPath(); err == nil {
			if cache, err = store.NewStore(dbPath); err != nil {
				logrus.Warnf("failed to open the notification cache: %s", err)
				cache = nil
			} else {
				defer cache.Close()
				if err := cache.UpsertNotifications(ctx, inbox.List()); err != nil {
					logrus.Warnf("failed to refresh the notification cache: %s", err)
				}
			}
		}

		var forwarder *forward.SlackForwarder
		if viper.GetString("slack-bot-token") != "" {
			forwarder, err = forward.NewSlackForwarder(forward.NewSlackForwarderOpts{
				BotToken:    viper.GetString("slack-bot-token"),
				ChannelId:   viper.GetString("slack-channel-id"),
				ServiceLogs: serviceLogs,
			})
			if err != nil {
				return fmt.Errorf("failed to create slack forwarder: %s", err)
			}
		}

		// the portal hands sessions an nkey seed on request, its absence
		// just means token-only authentication
		nkeySeed, _ := credential.Get(credential.KeyNatsNkeySeed)

		pushChannel := channel.NewChannel(channel.NewChannelOpts{
			Addr:         viper.GetString("push-addr"),
			NkeySeed:     nkeySeed,
			SessionToken: authContext.SessionToken,
			ServiceLogs:  serviceLogs,
		})

		program := tea.NewProgram(getModel(ctx, inbox), tea.WithAltScreen())

		if err := pushChannel.Open(channel.OpenOpts{
			Epoch:  authContext.Gate.Epoch(),
			Role:   user.Role,
			UserId: user.Id,
			Handler: func(event channel.Event) {
				received, err := inbox.HandleEvent(event.Kind, event.Message, event.EmittedAt)
				if err != nil {
					return
				}
				if cache != nil {
					if err := cache.UpsertNotifications(ctx, []notifications.Notification{*received}); err != nil {
						serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to cache notification[%s]: %s", received.Id, err)
					}
				}
				if forwarder != nil {
					if err := forwarder.Forward(*received); err != nil {
						serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "%s", err)
					}
				}
				program.Send(inboxChangedMsg{})
			},
		}); err != nil {
			return err
		}
		defer func() {
			if err := pushChannel.Close(); err != nil {
				logrus.Warnf("failed to close the push channel: %s", err)
			}
		}()

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run the watch view: %s", err)
		}
		return nil
	},
}
