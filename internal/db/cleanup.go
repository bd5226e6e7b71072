package db

import (
	"database/sql"
)

// sweepOrphans deletes every group in groupIDs that has no members left,
// along with its projects and their tasks, and returns the ids of the
// deleted projects. It runs in the caller's transaction and costs
// O(groups × projects).
func (db *DB) sweepOrphans(tx *sql.Tx, groupIDs []int64) ([]int64, error) {
	var removed []int64
	for _, groupID := range groupIDs {
		var members int
		if err := tx.QueryRow(`SELECT COUNT(ID) FROM "Member" WHERE groupID = ?`, groupID).Scan(&members); err != nil {
			return nil, err
		}
		if members > 0 {
			continue
		}

		projectIDs, err := groupProjectIDs(tx, groupID)
		if err != nil {
			return nil, err
		}
		for _, projectID := range projectIDs {
			if err := deleteProject(tx, projectID); err != nil {
				return nil, err
			}
		}
		if _, err := tx.Exec(`DELETE FROM "Group" WHERE ID = ?`, groupID); err != nil {
			return nil, constraintErr("deleting orphaned group", err)
		}

		db.logger.Info("removed orphaned group", "group_id", groupID, "projects", len(projectIDs))
		removed = append(removed, projectIDs...)
	}
	return removed, nil
}

func groupProjectIDs(tx *sql.Tx, groupID int64) ([]int64, error) {
	rows, err := tx.Query(`SELECT ID FROM "Project" WHERE groupID = ?`, groupID)
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
