package db

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/tgienger/taskmaster/internal/models"
)

const projectColumns = `"Project".ID, "Project".Name, "Project".Description, "Project".groupID`

// CreateProject creates a new project owned by groupID
func (db *DB) CreateProject(name, description string, groupID int64) (*models.Project, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}
	if err := checkProject(name, description); err != nil {
		return nil, err
	}

	result, err := db.conn.Exec(`
		INSERT INTO "Project" (Name, Description, groupID) VALUES (?, ?, ?)
	`, name, description, groupID)
	if err != nil {
		db.logger.Error("unable to add project", "project", name, "error", err)
		return nil, constraintErr("inserting project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.logger.Info("project created", "project", name, "group_id", groupID)
	return db.GetProject(id)
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(id int64) (*models.Project, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}

	p := &models.Project{}
	err := db.conn.QueryRow(`SELECT `+projectColumns+` FROM "Project" WHERE ID = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// EditProject replaces the name, description and owning group of a project
func (db *DB) EditProject(id int64, name, description string, groupID int64) error {
	if err := db.requireAuth(); err != nil {
		return err
	}
	if err := checkProject(name, description); err != nil {
		return err
	}

	result, err := db.conn.Exec(`
		UPDATE "Project" SET Name = ?, Description = ?, groupID = ?
		WHERE ID = ?
	`, name, description, groupID, id)
	if err != nil {
		db.logger.Error("unable to edit project", "project", name, "error", err)
		return constraintErr("updating project", err)
	}
	if err := expectRow(result, "project", id); err != nil {
		return err
	}

	if db.session.ProjectID == id {
		db.session.ProjectName = name
	}
	return nil
}

// DeleteProject deletes a project and all its tasks
func (db *DB) DeleteProject(id int64) error {
	if err := db.requireAuth(); err != nil {
		return err
	}

	err := db.withTx(func(tx *sql.Tx) error {
		return deleteProject(tx, id)
	})
	if err != nil {
		db.logger.Error("unable to delete project", "project_id", id, "error", err)
		return err
	}

	if db.session.ProjectID == id {
		db.CloseProject()
	}
	db.logger.Info("project deleted", "project_id", id)
	return nil
}

func deleteProject(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec(`DELETE FROM "Task" WHERE projectID = ?`, id); err != nil {
		return constraintErr("deleting project tasks", err)
	}
	result, err := tx.Exec(`DELETE FROM "Project" WHERE ID = ?`, id)
	if err != nil {
		return constraintErr("deleting project", err)
	}
	return expectRow(result, "project", id)
}

// ListProjects returns the projects owned by any group the logged in user
// belongs to
func (db *DB) ListProjects() ([]models.Project, error) {
	return db.queryProjects("")
}

// SearchProjects is ListProjects restricted to names containing search
func (db *DB) SearchProjects(search string) ([]models.Project, error) {
	return db.queryProjects(search)
}

func (db *DB) queryProjects(search string) ([]models.Project, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + projectColumns + ` FROM "Project"
		INNER JOIN "Member" ON "Member".groupID = "Project".groupID
		WHERE "Member".memberID = ?
	`
	args := []any{db.session.UserID}
	if search != "" {
		query += ` AND "Project".Name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.GroupID); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectData returns a project with its group name and completion percentage
func (db *DB) ProjectData(id int64) (*models.ProjectDetail, error) {
	if err := db.requireAuth(); err != nil {
		return nil, err
	}

	d := &models.ProjectDetail{}
	err := db.conn.QueryRow(`
		SELECT Name, Description, groupName FROM "Project"
		INNER JOIN "Group" ON "Project".groupID = "Group".ID
		WHERE "Project".ID = ?
	`, id).Scan(&d.Name, &d.Description, &d.GroupName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var total, complete int
	err = db.conn.QueryRow(`
		SELECT COUNT(ID), COALESCE(SUM(CASE WHEN Complete THEN 1 ELSE 0 END), 0)
		FROM "Task" WHERE projectID = ?
	`, id).Scan(&total, &complete)
	if err != nil {
		return nil, err
	}
	d.Completion = completion(complete, total)
	db.logger.Debug("project completion", "project_id", id, "percent", d.Completion)

	return d, nil
}

// completion returns complete/total as a percentage rounded to two places
func completion(complete, total int) float64 {
	if total == 0 || complete == 0 {
		return 0
	}
	return math.Round(float64(complete)/float64(total)*100*100) / 100
}

// OpenProject makes a project the current one for task operations
func (db *DB) OpenProject(id int64) error {
	p, err := db.GetProject(id)
	if err != nil {
		return err
	}
	db.session.ProjectID = p.ID
	db.session.ProjectName = p.Name
	return nil
}

// CloseProject clears the current project
func (db *DB) CloseProject() {
	db.session.ProjectID = 0
	db.session.ProjectName = ""
}

func checkProject(name, description string) error {
	if err := checkName("project", name); err != nil {
		return err
	}
	return checkDescription(description)
}
