package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/taskmaster/internal/db"
	"golang.org/x/term"
)

// passwordEnv is consulted when --password is not given
const passwordEnv = "TASKMASTER_PASSWORD"

var errNoUser = errors.New("no user given (use --user)")

func workspacePath() string {
	return db.PathFor(cfg.Workspace.Dir, flagWorkspace)
}

// openWorkspace opens the selected workspace without logging in
func openWorkspace() (*db.DB, error) {
	store, err := db.Open(workspacePath())
	if err != nil {
		return nil, fmt.Errorf("workspace %q: %w", flagWorkspace, err)
	}
	return store, nil
}

// openSession opens the selected workspace and logs in as --user
func openSession() (*db.DB, error) {
	if flagUser == "" {
		return nil, errNoUser
	}
	password, err := password("Password: ")
	if err != nil {
		return nil, err
	}

	store, err := openWorkspace()
	if err != nil {
		return nil, err
	}
	if err := store.Login(flagUser, password); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// password returns the --password flag, the environment value or, on a
// terminal, a prompted one
func password(prompt string) (string, error) {
	if flagPassword != "" {
		return flagPassword, nil
	}
	if p, ok := os.LookupEnv(passwordEnv); ok {
		return p, nil
	}
	return promptSecret(prompt)
}

func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password given (use --password or $%s)", passwordEnv)
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(db.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want %s)", s, db.DateFormat)
	}
	return t, nil
}

// today returns the current date at midnight UTC
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
