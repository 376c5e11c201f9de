package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/getjson/client"
	"github.com/s0up4200/getjson/config"
	"github.com/s0up4200/getjson/transport"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	// Command flags
	baseURL string
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "getjson",
	Short: "Fetch and validate JSON from HTTP APIs",
	Long: `getjson issues GET requests against JSON APIs and reports every failure
as a typed error: invalid arguments, infrastructure failures, timeouts,
non-success statuses, empty bodies, unexpected media types and
deserialization failures.

It also ships a small students API to try it against.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "override client.base_url")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "override client.timeout")
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line overrides
	if cmd.Flags().Changed("url") {
		cfg.Client.BaseURL = baseURL
	}
	if cmd.Flags().Changed("timeout") {
		if timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.Client.Timeout = timeout
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// transportOptions maps the client configuration onto transport options
func transportOptions() []transport.Option {
	opts := []transport.Option{
		transport.WithTimeout(cfg.Client.Timeout),
		transport.WithUserAgent(userAgent()),
		transport.WithLogger(logger),
	}
	if cfg.Client.InsecureSkipVerify {
		logger.Warn().Msg("TLS certificate verification is disabled")
		opts = append(opts, transport.WithInsecureSkipVerify())
	}
	return opts
}

// newStudentsClient creates a students API client from the configuration
func newStudentsClient(concurrency int) (*client.Client, error) {
	opts := []client.Option{
		client.WithConcurrency(concurrency),
		client.WithTransportOptions(transportOptions()...),
	}
	if cfg.Client.StrictDecoding {
		opts = append(opts, client.WithStrictDecoding())
	}
	return client.NewClient(cfg.Client.BaseURL, logger, opts...)
}

func userAgent() string {
	if cfg.Client.UserAgent != "" && cfg.Client.UserAgent != "getjson" {
		return cfg.Client.UserAgent
	}
	return "getjson/" + version
}
