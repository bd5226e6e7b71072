package models

import "time"

// User represents an account in a workspace
type User struct {
	ID       int64
	Name     string
	PassHash string
}

// Group represents a set of users that owns projects.
// Every user has a personal group carrying its own name.
type Group struct {
	ID   int64
	Name string
}

// Project represents a project owned by exactly one group
type Project struct {
	ID          int64
	Name        string
	Description string
	GroupID     int64
}

// ProjectDetail is a project joined with its owning group name and the
// share of its tasks that are complete, in percent rounded to two places.
type ProjectDetail struct {
	Name        string
	Description string
	GroupName   string
	Completion  float64
}

// Task represents a single task within a project
type Task struct {
	ID          int64
	ProjectID   int64
	Name        string
	Description string
	DateSet     time.Time
	DateDue     time.Time
	Complete    bool
}

// Session is the caller-visible state layered on one open workspace
type Session struct {
	Authenticated bool
	UserID        int64
	UserName      string
	ProjectID     int64 // 0 when no project is open
	ProjectName   string
}

// HasProject reports whether a current project is set
func (s Session) HasProject() bool {
	return s.ProjectID != 0
}
