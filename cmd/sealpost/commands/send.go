package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	domaintypes "sealpost/internal/domain/types"
)

// send <chat> <message> --to a,b,c: encrypt independently per recipient and
// append one envelope each.
func sendCmd() *cobra.Command {
	var to []string

	cmd := &cobra.Command{
		Use:   "send <chat> <message>",
		Short: "Encrypt and send a message to one or more recipients",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if user == "" {
				return fmt.Errorf("--user required")
			}
			chat := domaintypes.ChatID(args[0])
			plaintext := []byte(args[1])

			recipients := make([]domaintypes.UserID, 0, len(to))
			for _, r := range to {
				recipients = append(recipients, domaintypes.UserID(r))
			}

			if err := wire.Channel.Send(cmd.Context(), passphrase, chat, domaintypes.UserID(user), recipients, plaintext); err != nil {
				return err
			}
			fmt.Printf("sent to %d recipient(s)\n", len(recipients))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&to, "to", nil, "recipient user ids (comma separated or repeated)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
