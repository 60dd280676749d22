package commands

import (
	"os"

	"github.com/spf13/cobra"

	"sealpost/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	user       string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sealpost",
		Short: "End-to-end encrypted messaging over an untrusted relay",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}
			wire, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.sealpost)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting device keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&user, "user", "", "your user id on the relay")

	root.AddCommand(initCmd(), fingerprintCmd(), sendCmd(), recvCmd(), watchCmd())
	return root.Execute()
}
