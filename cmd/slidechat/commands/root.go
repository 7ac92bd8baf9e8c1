// ABOUTME: Root command and global flags for the slidechat CLI
// ABOUTME: Wires subcommands and starts a chat when no subcommand is given
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

var validFormats = []string{"auto", "table", "json"}

const banner = `
███████╗██╗     ██╗██████╗ ███████╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔════╝██║     ██║██╔══██╗██╔════╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
███████╗██║     ██║██║  ██║█████╗  ██║     ███████║███████║   ██║
╚════██║██║     ██║██║  ██║██╔══╝  ██║     ██╔══██║██╔══██║   ██║
███████║███████╗██║██████╔╝███████╗╚██████╗██║  ██║██║  ██║   ██║
╚══════╝╚══════╝╚═╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "slidechat",
		Short: "Command-line chatbot with sliding-window memory",
		Long: banner + `

A command-line chatbot that remembers the last few turns of the
conversation and sends them, with a system prompt, to an
OpenAI-compatible text completion model.

Running slidechat without a subcommand starts a chat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return errors.New("--verbose and --quiet are mutually exclusive")
			}
			if !containsString(validFormats, outputFormat) {
				return fmt.Errorf("invalid --format %q (want one of %s)", outputFormat, strings.Join(validFormats, ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show replies and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	flags.register(cmd.Flags())

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewPresetCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger returns a stderr logger honoring --verbose and --quiet
func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "slidechat",
	})
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
