package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"path/filepath"

	"github.com/spf13/cobra"

	"landscaper/internal/app"
)

var (
	configPath  string
	home        string
	relayURL    string
	participant string
	logLevel    string
	logJSON     bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:          "landscaper",
		Short:        "Collaborative restructuring of software landscapes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				dir := home
				if dir == "" {
					dir = app.DefaultConfig().Home
				}
				configPath = filepath.Join(dir, app.DefaultConfigFile)
			}
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("home") {
				cfg.Home = home
				cfg.StoreDir = filepath.Join(home, "landscapes")
			}
			if flags.Changed("relay") {
				cfg.RelayURL = relayURL
			}
			if flags.Changed("participant") {
				cfg.Participant = participant
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("log-json") {
				cfg.Log.JSON = logJSON
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}

			wire, err = app.NewWire(cfg)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	pf.StringVar(&home, "home", "", "config dir (default ~/.landscaper)")
	pf.StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	pf.StringVar(&participant, "participant", "", "participant id (default random)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")

	root.AddCommand(showCmd(), applyCmd(), joinCmd(), pushCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}
