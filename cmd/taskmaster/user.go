package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskmaster/internal/db"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register a new user and its personal group",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRegister,
}

var userRenameCmd = &cobra.Command{
	Use:   "rename <new-name>",
	Short: "Rename the logged in user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRename,
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password of the logged in user",
	Args:  cobra.NoArgs,
	RunE:  runUserPasswd,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the logged in user",
	Long: `Delete the logged in user.

Groups left without members are deleted together with their projects and tasks.`,
	Args: cobra.NoArgs,
	RunE: runUserRemove,
}

var userImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Register users from a CSV file",
	Long: `Register users from a CSV file.

The first row is a header naming the Uname and Password columns. Other
columns are ignored. Rows that fail are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserImport,
}

var newPassword string

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userRenameCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userRemoveCmd)
	userCmd.AddCommand(userImportCmd)

	userPasswdCmd.Flags().StringVar(&newPassword, "new-password", "", "New password (default prompt)")
}

func runUserRegister(cmd *cobra.Command, args []string) error {
	name := args[0]
	pass, err := password("Password for " + name + ": ")
	if err != nil {
		return err
	}

	store, err := openWorkspace()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Register(name, pass); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("User %s registered", name)))
	return nil
}

func runUserRename(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	name := args[0]
	if err := store.EditUser(db.UserUpdate{Name: &name}); err != nil {
		return fmt.Errorf("rename user: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("User %s renamed to %s", flagUser, name)))
	return nil
}

func runUserPasswd(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	pass := newPassword
	if pass == "" {
		if pass, err = promptSecret("New password: "); err != nil {
			return err
		}
	}
	if err := store.EditUser(db.UserUpdate{Password: &pass}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok("Password changed"))
	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RemoveUser(); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), sty.Ok(fmt.Sprintf("User %s removed", flagUser)))
	return nil
}

func runUserImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	nameCol, passCol := slices.Index(header, "Uname"), slices.Index(header, "Password")
	if nameCol < 0 || passCol < 0 {
		return errors.New("header must name the Uname and Password columns")
	}

	store, err := openWorkspace()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	var added, failed int
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		name := rec[nameCol]
		if err := store.Register(name, rec[passCol]); err != nil {
			fmt.Fprintln(out, sty.Fail(fmt.Sprintf("line %d: %s: %v", line, name, err)))
			failed++
			continue
		}
		added++
	}

	fmt.Fprintln(out, sty.Ok(fmt.Sprintf("%d users registered", added)))
	if failed > 0 {
		return fmt.Errorf("%d users could not be registered", failed)
	}
	return nil
}
