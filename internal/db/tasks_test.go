package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zeroTime time.Time

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

// withProject returns a logged in workspace with a fresh project open
func withProject(t *testing.T) *DB {
	t.Helper()

	db := loggedIn(t, "alice")
	p, err := db.CreateProject("garden", "", personalGroup(t, db))
	require.NoError(t, err)
	require.NoError(t, db.OpenProject(p.ID))
	return db
}

func TestTasks_NoProject(t *testing.T) {
	db := loggedIn(t, "alice")

	_, err := db.CreateTask("t", "", zeroTime, zeroTime, false)
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = db.ListTasks()
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = db.SearchTasks("t")
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestCreateTask(t *testing.T) {
	db := withProject(t)

	task, err := db.CreateTask("weed", `pull the "big" ones`, date("2024-03-01"), date("2024-03-15"), false)
	require.NoError(t, err)

	assert.Equal(t, db.Session().ProjectID, task.ProjectID)
	assert.Equal(t, "weed", task.Name)
	assert.Equal(t, `pull the "big" ones`, task.Description)
	assert.True(t, task.DateSet.Equal(date("2024-03-01")))
	assert.True(t, task.DateDue.Equal(date("2024-03-15")))
	assert.False(t, task.Complete)

	var stored string
	require.NoError(t, db.conn.QueryRow(`SELECT DateDue FROM "Task" WHERE ID = ?`, task.ID).Scan(&stored))
	assert.True(t, strings.HasPrefix(stored, "2024-03-15"))
}

func TestCreateTask_ZeroDates(t *testing.T) {
	db := withProject(t)

	task, err := db.CreateTask("undated", "", zeroTime, zeroTime, true)
	require.NoError(t, err)
	assert.True(t, task.DateSet.IsZero())
	assert.True(t, task.DateDue.IsZero())
	assert.True(t, task.Complete)
}

func TestCreateTask_Invalid(t *testing.T) {
	db := withProject(t)

	_, err := db.CreateTask("", "", zeroTime, zeroTime, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = db.CreateTask(strings.Repeat("n", maxNameLen+1), "", zeroTime, zeroTime, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = db.CreateTask("t", strings.Repeat("d", maxDescriptionLen+1), zeroTime, zeroTime, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListTasks_ScopedToCurrentProject(t *testing.T) {
	db := withProject(t)
	first := db.Session().ProjectID
	for _, name := range []string{"a", "b"} {
		_, err := db.CreateTask(name, "", zeroTime, zeroTime, false)
		require.NoError(t, err)
	}

	other, err := db.CreateProject("other", "", personalGroup(t, db))
	require.NoError(t, err)
	require.NoError(t, db.OpenProject(other.ID))
	_, err = db.CreateTask("c", "", zeroTime, zeroTime, false)
	require.NoError(t, err)

	tasks, err := db.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "c", tasks[0].Name)

	require.NoError(t, db.OpenProject(first))
	tasks, err = db.ListTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSearchTasks(t *testing.T) {
	db := withProject(t)
	for _, name := range []string{"Water roses", "water lawn", "mow", "100%"} {
		_, err := db.CreateTask(name, "", zeroTime, zeroTime, false)
		require.NoError(t, err)
	}

	tasks, err := db.SearchTasks("water")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	tasks, err = db.SearchTasks("%")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "100%", tasks[0].Name)

	tasks, err = db.SearchTasks("nothing")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestEditTask(t *testing.T) {
	db := withProject(t)
	task, err := db.CreateTask("weed", "", date("2024-03-01"), date("2024-03-15"), false)
	require.NoError(t, err)

	require.NoError(t, db.EditTask(task.ID, "weed more", "all of them", date("2024-04-01"), true))

	got, err := db.TaskData(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "weed more", got.Name)
	assert.Equal(t, "all of them", got.Description)
	assert.True(t, got.DateDue.Equal(date("2024-04-01")))
	assert.True(t, got.DateSet.Equal(date("2024-03-01")), "date set is not editable")
	assert.True(t, got.Complete)

	assert.ErrorIs(t, db.EditTask(9999, "x", "", zeroTime, false), ErrNotFound)
	assert.ErrorIs(t, db.EditTask(task.ID, "", "", zeroTime, false), ErrInvalidInput)
}

func TestDeleteTask(t *testing.T) {
	db := withProject(t)
	task, err := db.CreateTask("weed", "", zeroTime, zeroTime, false)
	require.NoError(t, err)

	require.NoError(t, db.DeleteTask(task.ID))

	_, err = db.TaskData(task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteTask(task.ID), ErrNotFound)

	tasks, err := db.ListTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
