package cmd

import (
	"github.com/emrgen/shazam/internal/config"
	"github.com/emrgen/shazam/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the config api server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if port != "" {
				cfg.HTTPPort = port
			}
			server.NewServer(cfg).Start()
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "http port (defaults to SHAZAM_HTTP_PORT)")

	return command
}
