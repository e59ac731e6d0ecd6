package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

// copyStudent keeps callers from aliasing the stored scores.
func copyStudent(s student.Student) student.Student {
	scores := make([]student.SubjectScore, len(s.Scores))
	copy(scores, s.Scores)
	s.Scores = scores
	return s
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	t := repo.db.student
	t.mutex.Lock()
	defer t.mutex.Unlock()

	s = copyStudent(s)
	s.ID = uuid.NewString()
	t.pk++
	t.seq[s.ID] = t.pk
	t.table[s.ID] = &s
	return copyStudent(s), nil
}

func (repo *studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	t := repo.db.student
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	students := make([]student.Student, 0, len(t.table))
	for _, s := range t.table {
		if filter.Matches(*s) {
			students = append(students, copyStudent(*s))
		}
	}
	// full ties keep insertion order
	sort.Slice(students, func(i, j int) bool { return t.seq[students[i].ID] < t.seq[students[j].ID] })
	ords := filter.Orderings
	if len(ords) == 0 {
		ords = []core.Ordering{{Field: "name", Ascending: true}}
	}
	student.SortStudents(students, ords)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	t := repo.db.student
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if s, ok := t.table[id]; ok {
		return copyStudent(*s), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	t := repo.db.student
	t.mutex.Lock()
	defer t.mutex.Unlock()

	orig, ok := t.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s = copyStudent(s)
	s.CreatedAt = orig.CreatedAt
	t.table[s.ID] = &s
	return copyStudent(s), nil
}

func (repo *studentRepository) ModifyStudent(_ context.Context, id string, fn func(s *student.Student) error) (student.Student, error) {
	t := repo.db.student
	t.mutex.Lock()
	defer t.mutex.Unlock()

	orig, ok := t.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s := copyStudent(*orig)
	if err := fn(&s); err != nil {
		return student.Student{}, err
	}
	s = copyStudent(s)
	s.ID = orig.ID
	s.CreatedAt = orig.CreatedAt
	t.table[id] = &s
	return copyStudent(s), nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	t := repo.db.student
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for _, id := range ids {
		delete(t.table, id)
		delete(t.seq, id)
	}
	return nil
}
