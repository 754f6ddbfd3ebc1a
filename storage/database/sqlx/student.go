package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckStudentEmailUniqueness(ctx context.Context, schoolID, email string) error {
	var count int
	query := `SELECT COUNT(*) FROM student WHERE school_id = $1 AND email = $2`
	if err := repo.db.GetContext(ctx, &count, query, schoolID, email); err != nil {
		return errors.Wrap(err, "checking student email")
	}
	if count > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	query := `
INSERT INTO student (id, school_id, name, email, level, created_at, updated_at)
VALUES (:id, :school_id, :name, :email, :level, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, st); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (repo *studentRepository) QuerySchoolStudents(ctx context.Context, schoolID string) ([]student.Student, error) {
	var students []student.Student
	query := `SELECT * FROM student WHERE school_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &students, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}
