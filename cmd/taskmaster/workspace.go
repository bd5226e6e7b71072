package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskmaster/internal/db"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspace files",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkspaceCreate,
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a workspace and everything in it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkspaceDelete,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workspaces in the workspace directory",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
}

func workspaceArg(args []string) {
	if len(args) == 1 {
		flagWorkspace = args[0]
	}
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	workspaceArg(args)
	if err := os.MkdirAll(cfg.Workspace.Dir, 0o755); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	if err := db.Create(workspacePath()); err != nil {
		return fmt.Errorf("create workspace %q: %w", flagWorkspace, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Workspace %s created", flagWorkspace)))
	return nil
}

func runWorkspaceDelete(cmd *cobra.Command, args []string) error {
	workspaceArg(args)
	if err := db.Delete(workspacePath()); err != nil {
		return fmt.Errorf("delete workspace %q: %w", flagWorkspace, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Workspace %s deleted", flagWorkspace)))
	return nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	names, err := db.List(cfg.Workspace.Dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, sty.Muted.Render("No workspaces in "+cfg.Workspace.Dir))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
