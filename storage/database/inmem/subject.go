package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, subj subject.Subject) (subject.Subject, error) {
	t := repo.db.subject
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, s := range t.table {
		if core.SameText(s.Code, subj.Code) {
			return subject.Subject{}, subject.ErrCodeExists
		}
	}
	subj.ID = uuid.NewString()
	t.table[subj.ID] = &subj
	return subj, nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, class string) ([]subject.Subject, error) {
	t := repo.db.subject
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	subjects := make([]subject.Subject, 0, len(t.table))
	for _, s := range t.table {
		if class == "" || core.SameText(s.Class, class) {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		ci, cj := strings.ToLower(subjects[i].Class), strings.ToLower(subjects[j].Class)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(subjects[i].Name) < strings.ToLower(subjects[j].Name)
	})
	return subjects, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (subject.Subject, error) {
	t := repo.db.subject
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if s, ok := t.table[id]; ok {
		return *s, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) GetSubjectByCode(_ context.Context, code string) (subject.Subject, error) {
	t := repo.db.subject
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, s := range t.table {
		if core.SameText(s.Code, code) {
			return *s, nil
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id string) error {
	t := repo.db.subject
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[id]; !ok {
		return subject.ErrNotFound
	}
	delete(t.table, id)
	return nil
}
