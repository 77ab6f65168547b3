package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taskmill/taskmill/internal/api"
	"github.com/taskmill/taskmill/internal/app"
	"github.com/taskmill/taskmill/internal/service"
)

// NewServeCmd creates the serve command exposing the HTTP API.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.EffectiveListenAddr()
			}

			db, closeDB, err := openDB()
			if err != nil {
				return cmdErr(err)
			}
			defer closeDB()

			svc := service.New(db, nil)
			srv := api.NewServer(svc)

			slog.Info("starting server", "addr", addr)
			if err := srv.Run(addr); err != nil {
				return cmdErr(err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: config listen_addr or :8080)")

	return cmd
}
