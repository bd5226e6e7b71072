package db

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/tgienger/taskmaster/internal/models"
)

// DefaultGroup is an alias for the logged in user's personal group
const DefaultGroup = "Default"

// CreateGroup creates a group and makes owner its first member
func (db *DB) CreateGroup(owner, name string) (*models.Group, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}
	if err := checkName("group", name); err != nil {
		return nil, err
	}

	var groupID int64
	err := db.withTx(func(tx *sql.Tx) error {
		userID, err := lookupID(tx, `SELECT ID FROM "User" WHERE UserName = ?`, owner)
		if err != nil {
			return fmt.Errorf("user %q: %w", owner, err)
		}
		groupID, err = insertGroup(tx, name)
		if err != nil {
			return err
		}
		return insertMember(tx, groupID, userID)
	})
	if err != nil {
		db.logger.Error("unable to create group", "group", name, "error", err)
		return nil, err
	}

	db.logger.Info("group created", "group", name, "owner", owner)
	return &models.Group{ID: groupID, Name: name}, nil
}

// JoinGroup adds the named user to the named group
func (db *DB) JoinGroup(username, groupName string) error {
	if err := db.requireAuth(); err != nil {
		return err
	}

	err := db.withTx(func(tx *sql.Tx) error {
		userID, err := lookupID(tx, `SELECT ID FROM "User" WHERE UserName = ?`, username)
		if err != nil {
			return fmt.Errorf("user %q: %w", username, err)
		}
		groupID, err := lookupID(tx, `SELECT ID FROM "Group" WHERE groupName = ?`, groupName)
		if err != nil {
			return fmt.Errorf("group %q: %w", groupName, err)
		}
		return insertMember(tx, groupID, userID)
	})
	if err != nil {
		db.logger.Error("unable to join group", "user", username, "group", groupName, "error", err)
		return err
	}

	db.logger.Info("joined group", "user", username, "group", groupName)
	return nil
}

// LeaveGroup removes the logged in user from a group. If the group is left
// without members its projects and their tasks are deleted.
func (db *DB) LeaveGroup(groupID int64) error {
	if err := db.requireAuth(); err != nil {
		return err
	}

	var removed []int64
	err := db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM "Member" WHERE groupID = ? AND memberID = ?`, groupID, db.session.UserID)
		if err != nil {
			return constraintErr("removing membership", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("membership of group %d: %w", groupID, ErrNotFound)
		}
		removed, err = db.sweepOrphans(tx, []int64{groupID})
		return err
	})
	if err != nil {
		db.logger.Error("unable to leave group", "group_id", groupID, "error", err)
		return err
	}

	if slices.Contains(removed, db.session.ProjectID) {
		db.CloseProject()
	}

	db.logger.Info("left group", "user", db.session.UserName, "group_id", groupID)
	return nil
}

// ListGroups returns the groups the logged in user belongs to
func (db *DB) ListGroups() ([]models.Group, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT "Group".ID, groupName FROM "Group"
		INNER JOIN "Member" ON "Member".groupID = "Group".ID
		WHERE "Member".memberID = ?
	`, db.session.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GroupID resolves a group name. DefaultGroup resolves to the logged in
// user's personal group.
func (db *DB) GroupID(name string) (int64, error) {
	if err := db.requireAuth(); err != nil {
		return 0, err
	}
	if name == DefaultGroup {
		name = db.session.UserName
	}

	var id int64
	err := db.conn.QueryRow(`SELECT ID FROM "Group" WHERE groupName = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return id, err
}

func lookupID(tx *sql.Tx, query string, arg any) (int64, error) {
	var id int64
	err := tx.QueryRow(query, arg).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

func insertGroup(tx *sql.Tx, name string) (int64, error) {
	res, err := tx.Exec(`INSERT INTO "Group" (groupName) VALUES (?)`, name)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, fmt.Errorf("%w: group %q", ErrNameTaken, name)
		}
		return 0, constraintErr("inserting group", err)
	}
	return res.LastInsertId()
}

func insertMember(tx *sql.Tx, groupID, userID int64) error {
	var n int
	err := tx.QueryRow(`SELECT COUNT(ID) FROM "Member" WHERE groupID = ? AND memberID = ?`, groupID, userID).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyMember
	}

	if _, err := tx.Exec(`INSERT INTO "Member" (groupID, memberID) VALUES (?, ?)`, groupID, userID); err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyMember
		}
		return constraintErr("inserting member", err)
	}
	return nil
}

func memberGroupIDs(tx *sql.Tx, userID int64) ([]int64, error) {
	rows, err := tx.Query(`SELECT groupID FROM "Member" WHERE memberID = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
