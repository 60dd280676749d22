package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	domaintypes "sealpost/internal/domain/types"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate device keys and publish the public record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if user == "" {
				return fmt.Errorf("--user required")
			}
			_, fp, err := wire.Keys.EnsureDeviceKeys(cmd.Context(), passphrase, domaintypes.UserID(user))
			if err != nil {
				return err
			}
			fmt.Printf("Device keys ready.\nFingerprint: %s\n", fp)
			return nil
		},
	}
}
