package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskmaster/internal/db"
	"github.com/tgienger/taskmaster/internal/models"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project in one of your groups",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the name, description or group of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the projects of your groups",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project with its completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var (
	projectDescription string
	projectGroup       string
	projectSearch      string

	editProjectName        string
	editProjectDescription string
	editProjectGroup       string
)

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)

	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectCreateCmd.Flags().StringVarP(&projectGroup, "group", "g", db.DefaultGroup, "Owning group")

	projectEditCmd.Flags().StringVarP(&editProjectName, "name", "n", "", "New name")
	projectEditCmd.Flags().StringVarP(&editProjectDescription, "description", "d", "", "New description")
	projectEditCmd.Flags().StringVarP(&editProjectGroup, "group", "g", "", "New owning group")

	projectListCmd.Flags().StringVarP(&projectSearch, "search", "s", "", "Only list projects whose name contains this text")
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	groupID, err := store.GroupID(projectGroup)
	if err != nil {
		return err
	}
	p, err := store.CreateProject(args[0], projectDescription, groupID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Project %s created (#%d)", p.Name, p.ID)))
	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.GetProject(id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = editProjectName
	}
	if flags.Changed("description") {
		p.Description = editProjectDescription
	}
	if flags.Changed("group") {
		if p.GroupID, err = store.GroupID(editProjectGroup); err != nil {
			return err
		}
	}

	if err := store.EditProject(p.ID, p.Name, p.Description, p.GroupID); err != nil {
		return fmt.Errorf("edit project: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Project #%d updated", p.ID)))
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteProject(id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Project #%d deleted", id)))
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	var projects []models.Project
	if projectSearch != "" {
		projects, err = store.SearchProjects(projectSearch)
	} else {
		projects, err = store.ListProjects()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, sty.Muted.Render("No projects"))
		return nil
	}
	for _, p := range projects {
		line := sty.ID.Render(fmt.Sprintf("#%d", p.ID)) + p.Name
		if p.Description != "" {
			line += " " + sty.Muted.Render(p.Description)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := store.ProjectData(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sty.Title.Render(d.Name))
	fmt.Fprintln(out, sty.Label.Render("Group")+d.GroupName)
	if d.Description != "" {
		fmt.Fprintln(out, sty.Label.Render("Description")+describe(d.Description))
	}
	fmt.Fprintln(out, sty.Label.Render("Complete")+fmt.Sprintf("%.2f%%", d.Completion))
	return nil
}
