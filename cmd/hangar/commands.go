package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/hangar/pkg/config"
	"github.com/arthur-debert/hangar/pkg/ui"
)

func newInstallCmd(flags *rootFlags) *cobra.Command {
	var deleteSource bool

	cmd := &cobra.Command{
		Use:   "install <archive-or-folder>...",
		Short: MsgInstallShort,
		Long:  MsgInstallLong,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("delete-source") {
				deleteSource = a.cfg.GetBool(config.KeyInstallDeleteSource)
			}
			r := a.reporter(flags.verbosity)

			for _, source := range args {
				var installed []string
				var opErrs []error

				err := a.run("install", func() error {
					info, err := os.Stat(source)
					if err != nil {
						return err
					}
					var runErr error
					if info.IsDir() {
						installed, opErrs, runErr = a.engine.Install(source, deleteSource, r)
					} else {
						installed, opErrs, runErr = a.engine.InstallArchive(context.Background(), source, r)
					}
					return runErr
				})
				if err != nil {
					return err
				}

				for _, name := range installed {
					a.status(ui.StatusSuccess, MsgInstalled, name)
				}
				if out := ui.RenderErrors(opErrs, a.format); out != "" {
					fmt.Fprintln(os.Stderr, out)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteSource, "delete-source", false, MsgFlagDeleteSource)
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			mods, listErrs, err := a.engine.GetAllMods()
			if err != nil {
				return err
			}

			if showVersion {
				a.status(ui.StatusSuccess, MsgGameVersion, a.engine.GetGameVersion())
			}

			out, err := ui.RenderModList(mods, a.format)
			if err != nil {
				return err
			}
			fmt.Println(out)

			if out := ui.RenderErrors(listErrs, a.format); out != "" {
				fmt.Fprintln(os.Stderr, out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showVersion, "game-version", false, "Also print the simulator version")
	return cmd
}

func newEnableCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <mod>...",
		Short: MsgEnableShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			r := a.reporter(flags.verbosity)
			for _, name := range args {
				name := name
				if err := a.run("enable", func() error { return a.engine.Enable(name, r) }); err != nil {
					return err
				}
				a.status(ui.StatusSuccess, MsgEnabled, name)
			}
			return nil
		},
	}
}

func newDisableCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <mod>...",
		Short: MsgDisableShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			r := a.reporter(flags.verbosity)
			for _, name := range args {
				name := name
				if err := a.run("disable", func() error { return a.engine.Disable(name, r) }); err != nil {
					return err
				}
				a.status(ui.StatusSuccess, MsgDisabled, name)
			}
			return nil
		},
	}
}

func newUninstallCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <mod>...",
		Short: MsgUninstallShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			r := a.reporter(flags.verbosity)
			for _, name := range args {
				name := name
				if err := a.run("uninstall", func() error { return a.engine.Uninstall(name, r) }); err != nil {
					return err
				}
				a.status(ui.StatusSuccess, MsgUninstalled, name)
			}
			return nil
		},
	}
}

func newBackupCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <destination.zip>",
		Short: MsgBackupShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			dest := args[0]
			r := a.reporter(flags.verbosity)
			err = a.run("backup", func() error {
				return a.engine.CreateBackup(context.Background(), dest, r)
			})
			if err != nil {
				return err
			}
			a.status(ui.StatusSuccess, MsgBackedUp, dest)
			return nil
		},
	}
}
