// Package commands provides the commands of the orb command line tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal"
	"github.com/telnet2/orb-sdk-go/internal/config"
	"github.com/telnet2/orb-sdk-go/internal/logging"
	"github.com/telnet2/orb-sdk-go/option"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	apiKey     string
	baseURL    string
	configPath string
	logLevel   string
	logFile    bool
	maxRetries int
	timeout    string
	jq         string
	raw        bool
	noColor    bool
}

// app is the state built once per invocation by the root command.
type app struct {
	flags  globalFlags
	client orb.Client
	out    *printer
}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "orb",
		Short: "Command line client for the Orb billing API",
		Long: `orb talks to the Orb billing API.

Settings are read from ~/.config/orb/config.{json,jsonc,yaml}, a project
.orb.{json,jsonc,yaml}, the file named by ORB_CONFIG, .env and the ORB_*
environment variables, in that order. Flags override all of them.`,
		Version:       internal.PackageVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiKey, "api-key", "", "API key (default $ORB_API_KEY)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "API base URL (default $ORB_BASE_URL or production)")
	pf.StringVar(&a.flags.configPath, "config", "", "Config file, read after the global and project config")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	pf.BoolVar(&a.flags.logFile, "log-file", false, "Also write JSON logs to the orb state directory")
	pf.IntVar(&a.flags.maxRetries, "max-retries", 2, "Retries after the first attempt")
	pf.StringVar(&a.flags.timeout, "timeout", "", "Timeout of each attempt, e.g. 30s")
	pf.StringVar(&a.flags.jq, "jq", "", "Filter the output with a jq expression")
	pf.BoolVar(&a.flags.raw, "raw", false, "Print string results without quotes")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")

	root.SetVersionTemplate(fmt.Sprintf("orb %s\n", internal.PackageVersion))

	root.AddCommand(newPingCmd(a))
	root.AddCommand(newCustomersCmd(a))
	root.AddCommand(newInvoicesCmd(a))
	root.AddCommand(newPricesCmd(a))
	root.AddCommand(newSubscriptionsCmd(a))
	root.AddCommand(newLedgerCmd(a))
	root.AddCommand(newEventsCmd(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return NewRootCmd().Execute()
}

// setup loads the configuration, applies the flags on top and builds the
// client used by the subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	configFile := a.flags.configPath
	if configFile == "" {
		configFile = os.Getenv(config.EnvConfig)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithFile(workDir, configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = a.flags.apiKey
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = a.flags.baseURL
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = &a.flags.maxRetries
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if a.flags.noColor {
		cfg.NoColor = true
	}

	logCfg := logging.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logCfg.Pretty = true
	if cfg.LogLevel != "" {
		logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	}
	if a.flags.logFile {
		logCfg.LogDir = config.GetPaths().LogDir()
		if err := os.MkdirAll(logCfg.LogDir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		logCfg.LogToFile = true
	}
	logging.Init(logCfg)
	if path := logging.GetLogFilePath(); path != "" {
		logging.Info().Str("path", path).Msg("logging to file")
	}

	opts, err := cfg.RequestOptions()
	if err != nil {
		return err
	}
	opts = append(opts, option.WithLogger(logging.With().Str("command", cmd.CommandPath()).Logger()))
	if cfg.APIKey == "" {
		logging.Warn().Msg("no API key configured, set ORB_API_KEY or pass --api-key")
	}

	logging.Debug().
		Str("base_url", cfg.BaseURL).
		Bool("api_key", cfg.APIKey != "").
		Str("timeout", cfg.Timeout).
		Msg("client configured")

	a.client = orb.NewClient(opts...)
	a.out = newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), terminalNoColor || cfg.NoColor)
	a.out.jq = a.flags.jq
	a.out.raw = a.flags.raw
	return nil
}
