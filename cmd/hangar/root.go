package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/hangar/internal/version"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/ui"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	verbosity   int
	formatStr   string
	simPackages string
	timeout     time.Duration
}

// newApp resolves the persistent flags into a wired app.
func (f *rootFlags) newApp() (*app, error) {
	format, err := ui.ParseFormat(f.formatStr)
	if err != nil {
		return nil, err
	}
	return newApp(f.simPackages, format, f.timeout)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "hangar",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.formatStr, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&flags.simPackages, "sim-packages", "", MsgFlagSimPackages)
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, MsgFlagTimeout)

	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newEnableCmd(flags))
	rootCmd.AddCommand(newDisableCmd(flags))
	rootCmd.AddCommand(newUninstallCmd(flags))
	rootCmd.AddCommand(newBackupCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hangar version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "HANGAR",
				Section: "1",
			}
			return doc.GenManTree(rootCmd, header, "/tmp")
		},
	}
}
