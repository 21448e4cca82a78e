package root

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"dailyquest/internal/api"
	"dailyquest/internal/config"
	"dailyquest/internal/identity"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Requests authenticate with a bearer token. DQ_AUTH selects the verifier:
jwt (HS256 tokens signed with DQ_JWT_SECRET, see "dq token"), firebase
(Firebase ID tokens) or none (every request acts as DQ_USER).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(os.Stderr, "", log.LstdFlags)
			a, cleanup, err := openAppWithLogger(ctx, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			verifier, err := newVerifier(ctx, a)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.env.HTTPAddr
			}
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			return api.NewServer(a.svc, verifier, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default DQ_HTTP_ADDR)")
	return cmd
}

func newVerifier(ctx context.Context, a *app) (identity.Verifier, error) {
	switch a.env.Auth {
	case config.AuthFirebase:
		return identity.NewFirebaseVerifier(ctx, a.fb)
	case config.AuthNone:
		a.log.Printf("[WARN] authentication disabled, every request acts as %s", a.env.User)
		return identity.NewStatic(a.env.User, a.env.Email), nil
	case config.AuthJWT:
		return identity.NewJWTVerifier(a.env.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", a.env.Auth)
	}
}
