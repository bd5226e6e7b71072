package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskmaster/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// compared against when the user does not exist so that unknown names
// take as long as wrong passwords
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// passwordCost is the bcrypt work factor for new hashes
var passwordCost = bcrypt.DefaultCost

// UserUpdate holds the fields to change on the logged in user.
// A nil field is left unchanged.
type UserUpdate struct {
	Name     *string
	Password *string
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Register creates a user together with its personal group
func (db *DB) Register(username, password string) error {
	if err := checkName("user", username); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	err = db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`INSERT INTO "User" (UserName, PassHash) VALUES (?, ?)`, username, hash)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: user %q", ErrNameTaken, username)
			}
			return constraintErr("inserting user", err)
		}
		userID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		groupID, err := insertGroup(tx, username)
		if err != nil {
			return err
		}
		return insertMember(tx, groupID, userID)
	})
	if err != nil {
		db.logger.Error("unable to add user", "user", username, "error", err)
		return err
	}

	db.logger.Info("user created", "user", username)
	return nil
}

// Login checks the credentials and, on success, authenticates the session
func (db *DB) Login(username, password string) error {
	db.session.Authenticated = false

	var u models.User
	err := db.conn.QueryRow(`SELECT ID, UserName, PassHash FROM "User" WHERE UserName = ?`, username).Scan(&u.ID, &u.Name, &u.PassHash)
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	db.session = models.Session{
		Authenticated: true,
		UserID:        u.ID,
		UserName:      u.Name,
	}
	db.logger.Info("logged in", "user", username)
	return nil
}

// Logout de-authenticates the session. The cached user and project are kept.
func (db *DB) Logout() {
	db.session.Authenticated = false
	db.logger.Info("logged out", "user", db.session.UserName)
}

// EditUser applies u to the logged in user. Renaming the user renames its
// personal group too.
func (db *DB) EditUser(u UserUpdate) error {
	if err := db.requireAuth(); err != nil {
		return err
	}
	if u.Name == nil && u.Password == nil {
		return nil
	}

	var name, hash any
	if u.Name != nil {
		if err := checkName("user", *u.Name); err != nil {
			return err
		}
		name = *u.Name
	}
	if u.Password != nil {
		h, err := hashPassword(*u.Password)
		if err != nil {
			return err
		}
		hash = h
	}

	oldName := db.session.UserName
	err := db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE "User" SET UserName = COALESCE(?, UserName), PassHash = COALESCE(?, PassHash)
			WHERE ID = ?
		`, name, hash, db.session.UserID)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: user %q", ErrNameTaken, *u.Name)
			}
			return constraintErr("updating user", err)
		}

		if u.Name == nil || *u.Name == oldName {
			return nil
		}
		_, err = tx.Exec(`
			UPDATE "Group" SET groupName = ?
			WHERE groupName = ? AND ID IN (SELECT groupID FROM "Member" WHERE memberID = ?)
		`, *u.Name, oldName, db.session.UserID)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: group %q", ErrNameTaken, *u.Name)
			}
			return constraintErr("renaming personal group", err)
		}
		return nil
	})
	if err != nil {
		db.logger.Error("unable to edit user", "user_id", db.session.UserID, "error", err)
		return err
	}

	if u.Name != nil {
		db.session.UserName = *u.Name
	}
	db.logger.Info("user updated", "user_id", db.session.UserID)
	return nil
}

// RemoveUser deletes the logged in user, then removes the projects of any
// group it leaves without members. The session is logged out.
func (db *DB) RemoveUser() error {
	if err := db.requireAuth(); err != nil {
		return err
	}

	userID := db.session.UserID
	err := db.withTx(func(tx *sql.Tx) error {
		groupIDs, err := memberGroupIDs(tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM "Member" WHERE memberID = ?`, userID); err != nil {
			return constraintErr("removing memberships", err)
		}
		if _, err := tx.Exec(`DELETE FROM "User" WHERE ID = ?`, userID); err != nil {
			return constraintErr("deleting user", err)
		}
		_, err = db.sweepOrphans(tx, groupIDs)
		return err
	})
	if err != nil {
		db.logger.Error("unable to delete user", "user_id", userID, "error", err)
		return err
	}

	db.logger.Info("user deleted", "user", db.session.UserName)
	db.session = models.Session{}
	return nil
}
