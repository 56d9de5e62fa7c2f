package copilot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpowernl/wafcli/internal/logging"
	"github.com/hpowernl/wafcli/internal/textproc"
	"github.com/spf13/cobra"
)

// errUsage ends the program with status 1 after the usage message was printed
var errUsage = errors.New("usage")

var logLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR"}

// NewRootCommand builds the copilot command tree writing to out
func NewRootCommand(out io.Writer) *cobra.Command {
	var (
		logLevel string
		app      *App
	)

	root := &cobra.Command{
		Use:           "copilot",
		Short:         "Copilot Application - a simple text and file tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !validLogLevel(logLevel) {
				return fmt.Errorf("invalid log level %q (choose from %s)", logLevel, strings.Join(logLevels, ", "))
			}
			app = NewApp(logging.NewWithWriter(out, logLevel, true))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Set the logging level ("+strings.Join(logLevels, ", ")+")")

	var operation string
	textCmd := &cobra.Command{
		Use:   "text <input_text>",
		Short: "Process text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := textproc.ParseOperation(operation)
			if err != nil {
				return err
			}
			result, err := app.ProcessText(args[0], op)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Result: %s\n", result)
			return nil
		},
	}
	textCmd.Flags().StringVar(&operation, "operation", textproc.Upper.String(),
		"Operation to perform on text ("+strings.Join(textproc.OperationNames(), ", ")+")")

	var readPath, writePath string
	fileCmd := &cobra.Command{
		Use:   "file [--read FILE | --write FILE CONTENT]",
		Short: "File operations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case readPath != "":
				content, err := app.ReadFile(readPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "File content:\n%s\n", content)
			case writePath != "":
				if len(args) != 1 {
					return errors.New("--write takes FILE and CONTENT")
				}
				if err := app.WriteFile(writePath, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Content written to %s\n", writePath)
			default:
				fmt.Fprintln(out, "Please specify --read or --write operation")
				return errUsage
			}
			return nil
		},
	}
	fileCmd.Flags().StringVar(&readPath, "read", "", "Read from file")
	fileCmd.Flags().StringVar(&writePath, "write", "", "Write CONTENT to FILE")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show system information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, "System Information:")
			for _, item := range app.SystemInfo() {
				fmt.Fprintf(out, "  %s: %s\n", item.Key, item.Value)
			}
			return nil
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the example commands and print a transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			return NewDemo(NewExecRunner(exe), out).Run(cmd.Context())
		},
	}

	root.AddCommand(textCmd, fileCmd, infoCmd, demoCmd)
	return root
}

func validLogLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}

// Main runs the copilot command line and returns the exit status
func Main(args []string, out io.Writer) int {
	root := NewRootCommand(out)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			logger := logging.NewWithWriter(out, "error", true)
			logger.Error().Err(err).Msg("Application error")
		}
		return 1
	}
	return 0
}
