package db

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"
)

// Workspace file errors
var (
	ErrAlreadyExists    = errors.New("workspace already exists")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidFormat    = errors.New("not a workspace file")
	ErrIO               = errors.New("i/o error")
)

// Business rule errors. These are routine outcomes the caller branches on.
var (
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoProject          = errors.New("no project open")
	ErrNameTaken          = errors.New("name already taken")
	ErrAlreadyMember      = errors.New("already a member of group")
	ErrIntegrity          = errors.New("integrity constraint violated")
	ErrInvalidInput       = errors.New("invalid input")
)

const (
	maxNameLen        = 20
	maxDescriptionLen = 200
)

func isConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// constraintErr maps a constraint failure onto ErrIntegrity and wraps
// anything else with the given action.
func constraintErr(action string, err error) error {
	if isConstraintError(err) {
		return fmt.Errorf("%w: %s: %v", ErrIntegrity, action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func checkName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name is empty", ErrInvalidInput, kind)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf("%w: %s name is longer than %d characters", ErrInvalidInput, kind, maxNameLen)
	}
	return nil
}

func checkDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}
