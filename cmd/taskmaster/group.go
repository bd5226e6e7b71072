package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups and memberships",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group owned by the logged in user",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupCreate,
}

var groupJoinCmd = &cobra.Command{
	Use:   "join <group>",
	Short: "Add a user to a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupJoin,
}

var groupLeaveCmd = &cobra.Command{
	Use:   "leave <group>",
	Short: "Leave a group",
	Long: `Leave a group.

If no members remain the group is deleted together with its projects and tasks.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroupLeave,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the groups of the logged in user",
	Args:  cobra.NoArgs,
	RunE:  runGroupList,
}

var joinMember string

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupJoinCmd)
	groupCmd.AddCommand(groupLeaveCmd)
	groupCmd.AddCommand(groupListCmd)

	groupJoinCmd.Flags().StringVarP(&joinMember, "member", "m", "", "User to add (default the logged in user)")
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := store.CreateGroup(store.Session().UserName, args[0])
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Group %s created (#%d)", g.Name, g.ID)))
	return nil
}

func runGroupJoin(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	member := joinMember
	if member == "" {
		member = store.Session().UserName
	}
	if err := store.JoinGroup(member, args[0]); err != nil {
		return fmt.Errorf("join group: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("%s joined %s", member, args[0])))
	return nil
}

func runGroupLeave(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.GroupID(args[0])
	if err != nil {
		return fmt.Errorf("group %q: %w", args[0], err)
	}
	if err := store.LeaveGroup(id); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Left %s", args[0])))
	return nil
}

func runGroupList(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	groups, err := store.ListGroups()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, sty.Muted.Render("No groups"))
		return nil
	}
	for _, g := range groups {
		fmt.Fprintln(out, sty.ID.Render(fmt.Sprintf("#%d", g.ID))+g.Name)
	}
	return nil
}
