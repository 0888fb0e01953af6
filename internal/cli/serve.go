package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/healthcase/symptom-checker/internal/app"
	"github.com/healthcase/symptom-checker/internal/config"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if port > 0 {
				env.Port = port
			}

			a, err := app.NewWithEnv(env)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port to listen on (overrides PORT)")

	return cmd
}
