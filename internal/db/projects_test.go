package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personalGroup(t *testing.T, db *DB) int64 {
	t.Helper()

	id, err := db.GroupID(DefaultGroup)
	require.NoError(t, err)
	return id
}

func TestCreateProject_RoundTrip(t *testing.T) {
	db := loggedIn(t, "alice")
	team, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)

	tests := []struct {
		name        string
		description string
		groupID     int64
		groupName   string
	}{
		{"garden", "weeding and watering", personalGroup(t, db), "alice"},
		{`it's "quoted"`, `desc with ' and " and ;`, team.ID, "team"},
		{"ünïcödé", strings.Repeat("d", maxDescriptionLen), team.ID, "team"},
		{"empty desc", "", personalGroup(t, db), "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := db.CreateProject(tt.name, tt.description, tt.groupID)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.groupID, p.GroupID)

			d, err := db.ProjectData(p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.description, d.Description)
			assert.Equal(t, tt.groupName, d.GroupName)
			assert.Zero(t, d.Completion)
		})
	}
}

func TestCreateProject_Invalid(t *testing.T) {
	db := loggedIn(t, "alice")
	group := personalGroup(t, db)

	_, err := db.CreateProject("", "", group)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = db.CreateProject(strings.Repeat("n", maxNameLen+1), "", group)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = db.CreateProject("p", strings.Repeat("d", maxDescriptionLen+1), group)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = db.CreateProject("p", "", 9999)
	assert.ErrorIs(t, err, ErrIntegrity)

	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Project"`))
}

func TestEditProject(t *testing.T) {
	db := loggedIn(t, "alice")
	team, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)
	p, err := db.CreateProject("old", "old desc", personalGroup(t, db))
	require.NoError(t, err)
	require.NoError(t, db.OpenProject(p.ID))

	require.NoError(t, db.EditProject(p.ID, "new", "new desc", team.ID))

	d, err := db.ProjectData(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", d.Name)
	assert.Equal(t, "new desc", d.Description)
	assert.Equal(t, "team", d.GroupName)
	assert.Equal(t, "new", db.Session().ProjectName)

	assert.ErrorIs(t, db.EditProject(9999, "x", "", team.ID), ErrNotFound)
	assert.ErrorIs(t, db.EditProject(p.ID, "x", "", 9999), ErrIntegrity)
}

func TestDeleteProject(t *testing.T) {
	db := loggedIn(t, "alice")
	group := personalGroup(t, db)
	p, err := db.CreateProject("doomed", "", group)
	require.NoError(t, err)
	other, err := db.CreateProject("other", "", group)
	require.NoError(t, err)

	require.NoError(t, db.OpenProject(other.ID))
	_, err = db.CreateTask("keep", "", zeroTime, zeroTime, false)
	require.NoError(t, err)

	require.NoError(t, db.OpenProject(p.ID))
	for _, name := range []string{"a", "b", "c"} {
		_, err := db.CreateTask(name, "", zeroTime, zeroTime, true)
		require.NoError(t, err)
	}

	require.NoError(t, db.DeleteProject(p.ID))

	assert.False(t, db.Session().HasProject())
	_, err = db.ListTasks()
	assert.ErrorIs(t, err, ErrNoProject)
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Task" WHERE projectID = ?`, p.ID))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Project" WHERE ID = ?`, p.ID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM "Task" WHERE projectID = ?`, other.ID))

	_, err = db.ProjectData(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.OpenProject(p.ID), ErrNotFound)
	assert.ErrorIs(t, db.DeleteProject(p.ID), ErrNotFound)
}

func TestListProjects_ScopedByMembership(t *testing.T) {
	db := loggedIn(t, "alice")
	require.NoError(t, db.Register("bob", "pw"))

	_, err := db.CreateProject("alice-1", "", personalGroup(t, db))
	require.NoError(t, err)
	bobGroup, err := db.GroupID("bob")
	require.NoError(t, err)
	_, err = db.CreateProject("bob-1", "", bobGroup)
	require.NoError(t, err)

	projects, err := db.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "alice-1", projects[0].Name)

	require.NoError(t, db.JoinGroup("alice", "bob"))
	projects, err = db.ListProjects()
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestSearchProjects(t *testing.T) {
	db := loggedIn(t, "alice")
	group := personalGroup(t, db)
	for _, name := range []string{"Garden", "garage", "kitchen", "50% off", "a_b"} {
		_, err := db.CreateProject(name, "", group)
		require.NoError(t, err)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"gar", []string{"Garden", "garage"}},
		{"GAR", []string{"Garden", "garage"}},
		{"kit", []string{"kitchen"}},
		{"%", []string{"50% off"}},
		{"_", []string{"a_b"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			projects, err := db.SearchProjects(tt.search)
			require.NoError(t, err)

			var names []string
			for _, p := range projects {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestProjectData_Completion(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []bool
		expected float64
	}{
		{"no tasks", nil, 0},
		{"none complete", []bool{false, false}, 0},
		{"one of three", []bool{true, false, false}, 33.33},
		{"two of three", []bool{true, true, false}, 66.67},
		{"two of four", []bool{true, false, true, false}, 50},
		{"all complete", []bool{true, true}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := loggedIn(t, "alice")
			p, err := db.CreateProject("p", "", personalGroup(t, db))
			require.NoError(t, err)
			require.NoError(t, db.OpenProject(p.ID))
			for _, complete := range tt.tasks {
				_, err := db.CreateTask("t", "", zeroTime, zeroTime, complete)
				require.NoError(t, err)
			}

			d, err := db.ProjectData(p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Completion)
		})
	}
}

func TestOpenProject(t *testing.T) {
	db := loggedIn(t, "alice")
	p, err := db.CreateProject("garden", "", personalGroup(t, db))
	require.NoError(t, err)

	require.NoError(t, db.OpenProject(p.ID))
	s := db.Session()
	assert.Equal(t, p.ID, s.ProjectID)
	assert.Equal(t, "garden", s.ProjectName)

	db.CloseProject()
	assert.False(t, db.Session().HasProject())
}
