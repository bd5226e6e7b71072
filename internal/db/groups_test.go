package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskmaster/internal/models"
)

func TestCreateGroup(t *testing.T) {
	db := loggedIn(t, "alice")

	g, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)
	assert.Equal(t, "team", g.Name)

	groups, err := db.ListGroups()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "team"}, groupNames(groups))
}

func TestCreateGroup_DuplicateLeavesNothing(t *testing.T) {
	db := loggedIn(t, "alice")
	_, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)

	_, err = db.CreateGroup("alice", "team")
	assert.ErrorIs(t, err, ErrNameTaken)

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM "Group" WHERE groupName = 'team'`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM "Member"`))
}

func TestCreateGroup_UnknownOwner(t *testing.T) {
	db := loggedIn(t, "alice")

	_, err := db.CreateGroup("nobody", "team")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Group" WHERE groupName = 'team'`))
}

func TestJoinGroup(t *testing.T) {
	db := loggedIn(t, "alice")
	require.NoError(t, db.Register("bob", "pw"))
	_, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)

	require.NoError(t, db.JoinGroup("bob", "team"))

	require.NoError(t, db.Login("bob", "pw"))
	groups, err := db.ListGroups()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "team"}, groupNames(groups))
}

func TestJoinGroup_Errors(t *testing.T) {
	db := loggedIn(t, "alice")
	require.NoError(t, db.Register("bob", "pw"))

	assert.ErrorIs(t, db.JoinGroup("nobody", "alice"), ErrNotFound)
	assert.ErrorIs(t, db.JoinGroup("bob", "nogroup"), ErrNotFound)
	assert.ErrorIs(t, db.JoinGroup("alice", "alice"), ErrAlreadyMember)

	require.NoError(t, db.JoinGroup("bob", "alice"))
	assert.ErrorIs(t, db.JoinGroup("bob", "alice"), ErrAlreadyMember)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM "Member" WHERE groupID = (SELECT ID FROM "Group" WHERE groupName = 'alice')`))
}

func TestLeaveGroup_LastMemberRemovesProjects(t *testing.T) {
	db := loggedIn(t, "alice")
	team, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)

	p, err := db.CreateProject("launch", "", team.ID)
	require.NoError(t, err)
	require.NoError(t, db.OpenProject(p.ID))
	for _, name := range []string{"a", "b"} {
		_, err := db.CreateTask(name, "", zeroTime, zeroTime, false)
		require.NoError(t, err)
	}

	require.NoError(t, db.LeaveGroup(team.ID))

	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Project" WHERE ID = ?`, p.ID))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Task" WHERE projectID = ?`, p.ID))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM "Group" WHERE ID = ?`, team.ID))
	assert.False(t, db.Session().HasProject(), "deleted project is no longer open")

	groups, err := db.ListGroups()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, groupNames(groups))
}

func TestLeaveGroup_OtherMembersKeepProjects(t *testing.T) {
	db := loggedIn(t, "alice")
	require.NoError(t, db.Register("bob", "pw"))
	team, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)
	require.NoError(t, db.JoinGroup("bob", "team"))

	p, err := db.CreateProject("launch", "", team.ID)
	require.NoError(t, err)
	require.NoError(t, db.OpenProject(p.ID))
	_, err = db.CreateTask("a", "", zeroTime, zeroTime, false)
	require.NoError(t, err)

	require.NoError(t, db.LeaveGroup(team.ID))

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM "Project" WHERE ID = ?`, p.ID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM "Task" WHERE projectID = ?`, p.ID))

	projects, err := db.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects, "alice no longer sees the project")

	require.NoError(t, db.Login("bob", "pw"))
	projects, err = db.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "launch", projects[0].Name)
}

func TestLeaveGroup_NotMember(t *testing.T) {
	db := loggedIn(t, "alice")
	require.NoError(t, db.Register("bob", "pw"))
	bobGroup, err := db.GroupID("bob")
	require.NoError(t, err)

	assert.ErrorIs(t, db.LeaveGroup(bobGroup), ErrNotFound)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM "Group" WHERE ID = ?`, bobGroup))
}

func TestGroupID(t *testing.T) {
	db := loggedIn(t, "alice")
	team, err := db.CreateGroup("alice", "team")
	require.NoError(t, err)

	id, err := db.GroupID("team")
	require.NoError(t, err)
	assert.Equal(t, team.ID, id)

	personal, err := db.GroupID("alice")
	require.NoError(t, err)
	def, err := db.GroupID(DefaultGroup)
	require.NoError(t, err)
	assert.Equal(t, personal, def)

	_, err = db.GroupID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func groupNames(groups []models.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}
