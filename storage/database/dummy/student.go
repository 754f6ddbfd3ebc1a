package dummydb

import (
	"context"
	"sort"

	"github.com/shulehub/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CheckStudentEmailUniqueness(ctx context.Context, schoolID, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, st := range repo.db.table {
		if st.SchoolID == schoolID && st.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) QuerySchoolStudents(ctx context.Context, schoolID string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	var students []student.Student
	for _, st := range repo.db.table {
		if st.SchoolID == schoolID {
			students = append(students, *st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}
