package notifications

import (
	"github.com/spf13/cobra"

	"hrdesk/cmd/hrdesk/notifications/list"
	"hrdesk/cmd/hrdesk/notifications/read"
	"hrdesk/cmd/hrdesk/notifications/watch"
)

func init() {
	Command.AddCommand(list.Command)
	Command.AddCommand(read.Command)
	Command.AddCommand(watch.Command)
}

var Command = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs", "n"},
	Short:   "Work with your HR portal notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
