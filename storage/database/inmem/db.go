// Package inmemdb keeps every table in process memory. Each table has its own lock.
package inmemdb

import (
	"sync"

	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
)

type (
	studentTable struct {
		mutex sync.RWMutex
		pk    int
		seq   map[string]int // insertion order
		table map[string]*student.Student
	}

	subjectTable struct {
		mutex sync.RWMutex
		table map[string]*subject.Subject
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	activityTable struct {
		mutex  sync.RWMutex
		pk     int
		events []activity.Activity // append-only, oldest first
	}

	DB struct {
		student  *studentTable
		subject  *subjectTable
		user     *userTable
		activity *activityTable
	}
)

func NewDB() *DB {
	db := new(DB)
	db.Reset()
	return db
}

// Reset drops every row.
func (db *DB) Reset() {
	db.student = &studentTable{seq: make(map[string]int), table: make(map[string]*student.Student)}
	db.subject = &subjectTable{table: make(map[string]*subject.Subject)}
	db.user = &userTable{table: make(map[string]*user.User)}
	db.activity = &activityTable{}
}
