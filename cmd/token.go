package main

import (
	"accessgate/internal/config"
	"accessgate/internal/platform"
	"accessgate/pkg/logger"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tokenCommand constructs the 'token' subcommand that verifies an identity
// service ID token with the configured keys and prints the identity it carries.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <id-token>",
		Short: "Verifies an ID token and prints its identity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			verifier, err := platform.NewVerifier(ctx, cfg, &http.Client{Timeout: cfg.Auth.RequestTimeout})
			if err != nil {
				logger.Fatal(ctx, "could not create token verifier", zap.Error(err))
			}
			defer verifier.Close()

			user, exp, err := verifier.Verify(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not verify ID token", zap.Error(err))
			}

			//nolint: forbidigo
			fmt.Printf("uid: %s\nemail: %s\nrole: %s\nexpires: %s\n",
				user.UID, user.Email, user.Role, exp.Format(time.RFC3339))
		},
	}

	return cmd
}
