package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sealpost/internal/crypto"
	domaintypes "sealpost/internal/domain/types"
)

// recv <chat>: fetch the chat's envelopes and decrypt the ones addressed
// to --user.
func recvCmd() *cobra.Command {
	var after string
	var limit int

	cmd := &cobra.Command{
		Use:   "recv <chat>",
		Short: "Fetch and decrypt a chat's queued envelopes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if user == "" {
				return fmt.Errorf("--user required")
			}
			chat := domaintypes.ChatID(args[0])
			me := domaintypes.UserID(user)

			envelopes, err := wire.Relay.Fetch(cmd.Context(), chat, domaintypes.EnvelopeID(after), limit)
			if err != nil {
				return err
			}
			for _, env := range envelopes {
				if env.RecipientID != me {
					continue
				}
				printMessage(cmd, env)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "only envelopes after this id")
	cmd.Flags().IntVar(&limit, "limit", 0, "max envelopes to fetch (0 = all)")
	return cmd
}

// printMessage renders one envelope: plain text when verified, a tamper
// warning when the signature fails, and a placeholder when the ciphertext
// cannot be opened at all.
func printMessage(cmd *cobra.Command, env domaintypes.EncryptedPayload) {
	msg, err := wire.Channel.Receive(cmd.Context(), passphrase, env)
	switch {
	case errors.Is(err, crypto.ErrDecryption):
		fmt.Printf("[%s] %s: <unreadable message>\n", env.ID, env.SenderID)
	case err != nil:
		fmt.Printf("[%s] %s: <error: %v>\n", env.ID, env.SenderID, err)
	case !msg.SignatureValid:
		fmt.Printf("[%s] %s (UNVERIFIED): %s\n", msg.EnvelopeID, msg.SenderID, msg.Plaintext)
	default:
		fmt.Printf("[%s] %s: %s\n", msg.EnvelopeID, msg.SenderID, msg.Plaintext)
	}
}
