package cli

import (
	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/logging"
	"github.com/aezell/codescore/internal/session"
	"github.com/aezell/codescore/internal/tui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Open the interactive analyzer",
	Long: `Open a terminal UI to choose a .js, .jsx or .py file, send it to the
analysis service and browse the score breakdown and recommendations.

Examples:
  codescore analyze                 # pick a file interactively
  codescore analyze src/App.jsx     # start with a file selected`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("dir", "d", "", "starting directory for the file picker")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	closer, err := logging.SetupFile(cfg.ResolvedLogLevel(), cfg.ResolvedLogFile())
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := tui.Options{Theme: cfg.ResolvedTheme()}
	opts.Dir, _ = cmd.Flags().GetString("dir")
	if len(args) == 1 {
		opts.Initial = args[0]
	}

	c := client.New(cfg.ResolvedEndpoint())
	log.Infof("Starting TUI against %s", c.Endpoint())
	return tui.Run(cmd.Context(), session.New(c), opts)
}
