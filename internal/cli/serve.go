package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/heysubinoy/kvlookup/internal/server"
	"github.com/heysubinoy/kvlookup/pkg/config"
)

type serveFlags struct {
	configPath string
	envFile    string

	db        string
	driver    string
	prefix    string
	bind      string
	grpcAddr  string
	adminAddr string
	logLevel  string
}

// NewServeCmd returns the command that runs the lookup service.
func NewServeCmd(use string) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: "Serve a key-value table over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), &f)
			if err != nil {
				return err
			}

			logger := hclog.New(&hclog.LoggerOptions{
				Name:   server.ServiceName,
				Level:  hclog.LevelFromString(cfg.LogLevel),
				Output: cmd.ErrOrStderr(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := server.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			return s.Run(ctx)
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (f *serveFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to YAML configuration file")
	fs.StringVar(&f.envFile, "env-file", "", "Load KVLOOKUP_* variables from this file")
	fs.StringVarP(&f.db, "db", "d", "", "Database location (file path, or DSN for postgres)")
	fs.StringVar(&f.driver, "driver", config.DefaultDriver, "Store driver: sqlite, bolt or postgres")
	fs.StringVar(&f.prefix, "prefix", config.DefaultPrefix, "URL prefix stripped from lookup paths")
	fs.StringVar(&f.bind, "bind", config.DefaultBind, "HTTP listen address")
	fs.StringVar(&f.grpcAddr, "grpc-addr", "", "gRPC health listen address (disabled if empty)")
	fs.StringVar(&f.adminAddr, "admin-addr", "", "Admin metrics listen address (disabled if empty)")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level: trace, debug, info, warn, error")
}

// loadConfig merges defaults, config file, environment and explicitly
// set flags, in increasing order of precedence.
func loadConfig(fs *pflag.FlagSet, f *serveFlags) (*config.Config, error) {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides := map[string]struct {
		dst *string
		src string
	}{
		"db":         {&cfg.DB, f.db},
		"driver":     {&cfg.Driver, f.driver},
		"prefix":     {&cfg.Prefix, f.prefix},
		"bind":       {&cfg.Bind, f.bind},
		"grpc-addr":  {&cfg.GRPCAddr, f.grpcAddr},
		"admin-addr": {&cfg.AdminAddr, f.adminAddr},
		"log-level":  {&cfg.LogLevel, f.logLevel},
	}
	for name, o := range overrides {
		if fs.Changed(name) {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
