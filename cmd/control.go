package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cleanAll bool
	cleanSet int
	fanSet   int
	newName  string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Start or continue a cleaning run",
	RunE:  runClean,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current run, the robot stays in place",
	RunE:  runStop,
}

var dockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Send the robot back to its docking station",
	RunE:  runDock,
}

var fanCmd = &cobra.Command{
	Use:   "fan",
	Short: "Switch the fan/suction preset",
	RunE:  runFan,
}

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Assign a new robot name",
	RunE:  runRename,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "clean the whole house instead of continuing")
	cleanCmd.Flags().IntVar(&cleanSet, "set", -1, "cleaning parameter set to switch to first")
	fanCmd.Flags().IntVar(&fanSet, "set", -1, "cleaning parameter set")
	renameCmd.Flags().StringVar(&newName, "name", "", "new robot name")
	rootCmd.AddCommand(cleanCmd, stopCmd, dockCmd, fanCmd, renameCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	if cleanSet >= 0 {
		if err := cli.SetCleaningParameterSet(ctx, cleanSet); err != nil {
			return err
		}
	}
	if cleanAll {
		if err := cli.CleanAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "whole house clean started")
		return nil
	}
	if err := cli.CleanStartOrContinue(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cleaning started")
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := cli.Stop(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "stopped")
	return nil
}

func runDock(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := cli.GoHome(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "returning to dock")
	return nil
}

func runFan(cmd *cobra.Command, args []string) error {
	if fanSet < 0 {
		return fmt.Errorf("--set is required")
	}
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := cli.SetCleaningParameterSet(ctx, fanSet); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleaning parameter set switched to %d\n", fanSet)
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	if newName == "" {
		return fmt.Errorf("--name is required")
	}
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := cli.SetName(ctx, newName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "robot renamed to %s\n", newName)
	return nil
}
