package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskmaster/internal/models"
)

// DateFormat is the storage format of task dates
const DateFormat = "2006-01-02"

const taskColumns = `ID, projectID, Name, Description, DateSet, DateDue, Complete`

// dateValue stores a date as YYYY-MM-DD, or NULL for the zero time
func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateFormat)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var set, due sql.NullTime
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &set, &due, &t.Complete); err != nil {
		return t, err
	}
	t.DateSet = set.Time
	t.DateDue = due.Time
	return t, nil
}

// CreateTask creates a task in the current project
func (db *DB) CreateTask(name, description string, dateSet, dateDue time.Time, complete bool) (*models.Task, error) {
	if err := db.requireProject(); err != nil {
		return nil, err
	}
	if err := checkTask(name, description); err != nil {
		return nil, err
	}

	result, err := db.conn.Exec(`
		INSERT INTO "Task" (Name, Description, DateSet, DateDue, Complete, projectID)
		VALUES (?, ?, ?, ?, ?, ?)
	`, name, description, dateValue(dateSet), dateValue(dateDue), complete, db.session.ProjectID)
	if err != nil {
		db.logger.Error("unable to create task", "task", name, "project", db.session.ProjectName, "error", err)
		return nil, constraintErr("inserting task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.TaskData(id)
}

// TaskData retrieves a task by ID
func (db *DB) TaskData(id int64) (*models.Task, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}

	t, err := scanTask(db.conn.QueryRow(`SELECT `+taskColumns+` FROM "Task" WHERE ID = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns all tasks of the current project
func (db *DB) ListTasks() ([]models.Task, error) {
	return db.queryTasks("")
}

// SearchTasks returns the tasks of the current project whose name contains search
func (db *DB) SearchTasks(search string) ([]models.Task, error) {
	return db.queryTasks(search)
}

func (db *DB) queryTasks(search string) ([]models.Task, error) {
	if err := db.requireProject(); err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM "Task" WHERE projectID = ?`
	args := []any{db.session.ProjectID}
	if search != "" {
		query += ` AND Name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// EditTask replaces the mutable fields of a task
func (db *DB) EditTask(id int64, name, description string, dateDue time.Time, complete bool) error {
	if err := db.requireAuth(); err != nil {
		return err
	}
	if err := checkTask(name, description); err != nil {
		return err
	}

	result, err := db.conn.Exec(`
		UPDATE "Task" SET Name = ?, Description = ?, DateDue = ?, Complete = ?
		WHERE ID = ?
	`, name, description, dateValue(dateDue), complete, id)
	if err != nil {
		db.logger.Error("unable to edit task", "task", name, "project", db.session.ProjectName, "error", err)
		return constraintErr("updating task", err)
	}
	return expectRow(result, "task", id)
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(id int64) error {
	if err := db.requireAuth(); err != nil {
		return err
	}

	result, err := db.conn.Exec(`DELETE FROM "Task" WHERE ID = ?`, id)
	if err != nil {
		db.logger.Error("unable to delete task", "task_id", id, "error", err)
		return constraintErr("deleting task", err)
	}
	return expectRow(result, "task", id)
}

func expectRow(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

func checkTask(name, description string) error {
	if err := checkName("task", name); err != nil {
		return err
	}
	return checkDescription(description)
}
