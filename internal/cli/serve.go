package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/api"
)

// newServeCmd creates the serve command for the API server
func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the dailytasks JSON API.

Every /api route requires an X-User-ID header carrying a UUID. The
server drains in-flight requests on SIGINT or SIGTERM.

Example:
  dailytasks serve                 # Listen on server.addr (default :3000)
  dailytasks serve --addr :8080    # Listen on a custom address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			addr, _ := cmd.Flags().GetString("addr")
			if !cmd.Flags().Changed("addr") {
				addr = e.cfg.Server.Addr
			}
			if !opts.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			server := api.New(e.svc, &api.Config{
				Addr:            addr,
				RequestTimeout:  time.Duration(e.cfg.Server.RequestTimeoutSec) * time.Second,
				ShutdownTimeout: time.Duration(e.cfg.Server.ShutdownTimeoutSec) * time.Second,
				Logger:          e.logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.StartContext(ctx)
		},
	}

	cmd.Flags().String("addr", ":3000", "address to listen on")

	return cmd
}
