package totp

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/auth"
	"hrdesk/internal/cli"
	"hrdesk/internal/credential"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "seed",
		DefaultValue: "",
		Usage:        "the seed to use for generating totp tokens, falls back to the stored seed",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "account",
		DefaultValue: "hrdesk",
		Usage:        "the account label to enroll a generated seed under",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "save",
		DefaultValue: false,
		Usage:        "stores the seed so `hrdesk login` can answer MFA challenges itself",
		Type:         cli.FlagTypeBool,
	},
	{
		Name:         "qr",
		DefaultValue: false,
		Usage:        "prints an enrollment QR code for your authenticator app",
		Type:         cli.FlagTypeBool,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "totp",
	Short: "Generates a TOTP seed and ten minutes worth of TOTP tokens",
	Long:  "Generates a TOTP seed and ten minutes worth of TOTP tokens. If no seed is specified and none is stored, generates a TOTP seed",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := viper.GetString("seed")
		if seed == "" {
			if stored, err := credential.Get(credential.KeyTotpSeed); err == nil {
				seed = stored
				logrus.Debugf("using the stored totp seed")
			}
		}
		if seed == "" {
			var err error
			seed, err = auth.CreateTotpSeed("hrdesk", viper.GetString("account"))
			if err != nil {
				return fmt.Errorf("failed to create totp seed: %w", err)
			}
			logrus.Infof("generated the following totp seed")
			fmt.Println(seed)
		}

		if viper.GetBool("save") {
			if err := credential.Set(credential.KeyTotpSeed, seed); err != nil {
				return fmt.Errorf("failed to store totp seed: %w", err)
			}
			logrus.Infof("stored the totp seed")
		}

		if viper.GetBool("qr") {
			qr, err := auth.GetTotpQrCode(auth.GetTotpQrCodeOpts{
				Issuer:    "hrdesk",
				AccountId: viper.GetString("account"),
				Secret:    seed,
			})
			if err != nil {
				return fmt.Errorf("failed to create qr code: %w", err)
			}
			fmt.Println(qr)
		}

		validity := 10 * time.Minute
		codes, err := auth.CreateTotpTokens(seed, validity)
		if err != nil {
			return fmt.Errorf("failed to create totp tokens: %w", err)
		}
		logrus.Infof("generated the following totp codes:")
		for _, code := range codes {
			fmt.Println(code)
		}
		return nil
	},
}
