package main

import (
	"copyselect/internal/server"

	"github.com/spf13/cobra"
)

var tcpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on this address instead of stdio")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg)
	if tcpAddr != "" {
		log.Infof("listening on %s", tcpAddr)
		return srv.RunTCP(tcpAddr)
	}
	return srv.RunStdio()
}
