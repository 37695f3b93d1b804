// Package cli implements the codescore command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aezell/codescore/internal/config"
	"github.com/aezell/codescore/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	endpoint string
	debug    bool

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codescore",
	Short: "Score the code quality of React and FastAPI source files",
	Long: `codescore uploads a JavaScript (.js, .jsx) or Python (.py) file to a
code analysis service and shows the overall score, the per-category
breakdown and the recommendations it returns.

The service endpoint defaults to http://localhost:8000/analyze-code and
can be set in the config file, with CODESCORE_ENDPOINT or with --endpoint.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/codescore/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "analysis service URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// ExitError carries a process exit code without an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 1
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exit *ExitError
	if err != nil && !errors.As(err, &exit) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if endpoint != "" {
		c.Endpoint = endpoint
	}
	if debug {
		c.Log.Level = "debug"
	}
	cfg = c

	// The TUI logs to a file once it owns the terminal.
	if cmd == analyzeCmd {
		return nil
	}
	return logging.Setup(cfg.ResolvedLogLevel(), os.Stderr)
}
