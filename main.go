package main

import (
	"os"

	"copyselect/internal/config"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

var log = commonlog.GetLogger("copyselect")

var (
	configPath string
	logfile    string
	verbose    int
)

var rootCmd = &cobra.Command{
	Use:   "copyselect",
	Short: "Line selections that follow your edits",
	Long: `copyselect keeps named line ranges across files, moves them along as the
files are edited and copies their text as one block. Run without a
subcommand it serves the Language Server Protocol over stdio.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "path to log file")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")
}

func main() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	// Logging
	var path *string
	if logfile != "" {
		path = &logfile
	}
	commonlog.Configure(1+verbose, path)
	return nil
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromTOML(configPath)
	if err != nil {
		return config.Config{}, err
	}
	log.Infof("loaded config from %s", configPath)
	return cfg, nil
}
