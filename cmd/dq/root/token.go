package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dailyquest/internal/config"
	"dailyquest/internal/identity"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for DQ_USER (DQ_AUTH=jwt)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if a.env.Auth != config.AuthJWT {
				return errors.New("tokens can only be issued when DQ_AUTH=jwt")
			}
			v, err := identity.NewJWTVerifier(a.env.JWTSecret)
			if err != nil {
				return err
			}
			tok, err := v.Issue(identity.Identity{
				UserID:   a.userID,
				Email:    a.env.Email,
				Username: identity.UsernameFromEmail(a.env.Email),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", identity.DefaultTokenTTL, "Token lifetime")
	return cmd
}
