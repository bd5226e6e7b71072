package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskmaster/internal/db"
	"github.com/tgienger/taskmaster/internal/models"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Manage the tasks of a project",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCreate,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks of the project",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var (
	taskProject     int64
	taskDescription string
	taskDue         string
	taskDone        bool
	taskSearch      string

	editTaskName        string
	editTaskDescription string
	editTaskDue         string
	editTaskDone        bool
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)

	taskCmd.PersistentFlags().Int64VarP(&taskProject, "project", "p", 0, "Project ID")
	_ = taskCmd.MarkPersistentFlagRequired("project")

	taskCreateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	taskCreateCmd.Flags().StringVar(&taskDue, "due", "", "Due date ("+db.DateFormat+")")
	taskCreateCmd.Flags().BoolVar(&taskDone, "done", false, "Create the task as complete")

	taskEditCmd.Flags().StringVarP(&editTaskName, "name", "n", "", "New name")
	taskEditCmd.Flags().StringVarP(&editTaskDescription, "description", "d", "", "New description")
	taskEditCmd.Flags().StringVar(&editTaskDue, "due", "", "New due date ("+db.DateFormat+"), empty to clear")
	taskEditCmd.Flags().BoolVar(&editTaskDone, "done", false, "Mark the task complete (--done=false to reopen)")

	taskListCmd.Flags().StringVarP(&taskSearch, "search", "s", "", "Only list tasks whose name contains this text")
}

// openProject logs in and opens the --project project
func openProject() (*db.DB, error) {
	store, err := openSession()
	if err != nil {
		return nil, err
	}
	if err := store.OpenProject(taskProject); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open project #%d: %w", taskProject, err)
	}
	return store, nil
}

// projectTask looks up a task of the open project. Tasks of other
// projects are reported as not found.
func projectTask(store *db.DB, id int64) (*models.Task, error) {
	t, err := store.TaskData(id)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != store.Session().ProjectID {
		return nil, fmt.Errorf("task %d in project #%d: %w", id, store.Session().ProjectID, db.ErrNotFound)
	}
	return t, nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	due, err := parseDate(taskDue)
	if err != nil {
		return err
	}

	store, err := openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.CreateTask(args[0], taskDescription, today(), due, taskDone)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Task %s created (#%d)", t.Name, t.ID)))
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := projectTask(store, id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		t.Name = editTaskName
	}
	if flags.Changed("description") {
		t.Description = editTaskDescription
	}
	if flags.Changed("due") {
		if t.DateDue, err = parseDate(editTaskDue); err != nil {
			return err
		}
	}
	if flags.Changed("done") {
		t.Complete = editTaskDone
	}

	if err := store.EditTask(t.ID, t.Name, t.Description, t.DateDue, t.Complete); err != nil {
		return fmt.Errorf("edit task: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Task #%d updated", t.ID)))
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := projectTask(store, id); err != nil {
		return err
	}
	if err := store.DeleteTask(id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("Task #%d deleted", id)))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	store, err := openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	var tasks []models.Task
	if taskSearch != "" {
		tasks, err = store.SearchTasks(taskSearch)
	} else {
		tasks, err = store.ListTasks()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, sty.Muted.Render("No tasks in "+store.Session().ProjectName))
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(out, sty.ID.Render(fmt.Sprintf("#%d", t.ID))+taskLine(t))
	}
	return nil
}

func taskLine(t models.Task) string {
	if t.Complete {
		return sty.Done.Render("[x] " + t.Name)
	}
	line := sty.Pending.Render("[ ] " + t.Name)
	if !t.DateDue.IsZero() {
		line += " " + sty.Muted.Render("due "+formatDate(t.DateDue))
	}
	return line
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := projectTask(store, id)
	if err != nil {
		return err
	}

	status := sty.Pending.Render("open")
	if t.Complete {
		status = sty.Done.Render("complete")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sty.Title.Render(t.Name))
	fmt.Fprintln(out, sty.Label.Render("Project")+store.Session().ProjectName)
	if t.Description != "" {
		fmt.Fprintln(out, sty.Label.Render("Description")+describe(t.Description))
	}
	fmt.Fprintln(out, sty.Label.Render("Created")+formatDate(t.DateSet))
	fmt.Fprintln(out, sty.Label.Render("Due")+formatDate(t.DateDue))
	fmt.Fprintln(out, sty.Label.Render("Status")+status)
	return nil
}
