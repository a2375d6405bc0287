package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/KaramelBytes/benford-cli/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyze and adjust operations over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		opt := analysis.DefaultOptions()
		opt.Threshold = cfg.Threshold
		opt.SampleRows = cfg.SampleRows
		opt.Parse.MaxRows = cfg.MaxRows

		srv := server.New(server.Config{
			Addr:           addr,
			MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
			Seed:           cfg.Seed,
			Audit:          opt,
		}, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
}
