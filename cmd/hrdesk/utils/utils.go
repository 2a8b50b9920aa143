package utils

import (
	"github.com/spf13/cobra"

	"hrdesk/cmd/hrdesk/utils/totp"
)

func init() {
	Command.AddCommand(totp.Command)
}

var Command = &cobra.Command{
	Use:   "utils",
	Short: "Utility scripts to help with debugging",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
