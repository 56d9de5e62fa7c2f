package infracheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hpowernl/wafcli/internal/logging"
	"github.com/spf13/cobra"
)

var errChecksFailed = errors.New("checks failed")

// NewRootCommand builds the infracheck command writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	var (
		root     string
		manifest string
		watch    bool
		noColor  bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "infracheck",
		Short:         "Validate infrastructure templates, parameters, website files and scripts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := DefaultManifest()
			if manifest != "" {
				var err error
				if m, err = LoadManifest(manifest); err != nil {
					return err
				}
			}

			runner := NewRunner(root, m, out, !noColor)
			if watch {
				logger := logging.New(logLevel, noColor)
				return Watch(cmd.Context(), runner, logger)
			}

			if !runner.Run().OK() {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Repository root the manifest paths are relative to")
	cmd.Flags().StringVar(&manifest, "manifest", "", "YAML manifest overriding the built-in checks")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the checks when files change")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level for --watch")

	return cmd
}

// Main runs infracheck and returns the exit status
func Main(args []string, out io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
