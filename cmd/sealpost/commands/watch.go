package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	domaintypes "sealpost/internal/domain/types"
)

// watch <chat>: stream the chat live, decrypting envelopes addressed to
// --user until interrupted.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <chat>",
		Short: "Stream a chat's envelopes live and decrypt them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if user == "" {
				return fmt.Errorf("--user required")
			}
			chat := domaintypes.ChatID(args[0])

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			messages, cancel, err := wire.Channel.Watch(ctx, passphrase, chat, domaintypes.UserID(user))
			if err != nil {
				return err
			}
			defer cancel()

			for msg := range messages {
				if msg.SignatureValid {
					fmt.Printf("[%s] %s: %s\n", msg.EnvelopeID, msg.SenderID, msg.Plaintext)
				} else {
					fmt.Printf("[%s] %s (UNVERIFIED): %s\n", msg.EnvelopeID, msg.SenderID, msg.Plaintext)
				}
			}
			return nil
		},
	}
}
