package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core/academics"
)

type academicsRepository struct {
	db *sqlx.DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *sqlx.DB) *academicsRepository {
	return &academicsRepository{db: db}
}

type classRow struct {
	ID          string      `db:"id"`
	SchoolID    string      `db:"school_id"`
	CourseID    string      `db:"course_id"`
	Name        string      `db:"name"`
	ProfessorID null.String `db:"professor_id"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r classRow) toClass() academics.Class {
	return academics.Class{
		ID:          r.ID,
		SchoolID:    r.SchoolID,
		CourseID:    r.CourseID,
		Name:        r.Name,
		ProfessorID: r.ProfessorID.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (repo *academicsRepository) CheckDepartmentNameUniqueness(ctx context.Context, schoolID, name string) error {
	var count int
	query := `SELECT COUNT(*) FROM department WHERE school_id = $1 AND name = $2`
	if err := repo.db.GetContext(ctx, &count, query, schoolID, name); err != nil {
		return errors.Wrap(err, "checking department name")
	}
	if count > 0 {
		return academics.ErrNameExists
	}
	return nil
}

func (repo *academicsRepository) CreateDepartment(ctx context.Context, dept academics.Department) (academics.Department, error) {
	query := `
INSERT INTO department (id, school_id, name, created_at, updated_at)
VALUES (:id, :school_id, :name, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, dept); err != nil {
		return academics.Department{}, errors.Wrap(err, "creating department")
	}
	return dept, nil
}

func (repo *academicsRepository) GetDepartmentByID(ctx context.Context, id string) (academics.Department, error) {
	var dept academics.Department
	if err := repo.db.GetContext(ctx, &dept, `SELECT * FROM department WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Department{}, academics.ErrDepartmentNotFound
		}
		return academics.Department{}, errors.Wrap(err, "getting department")
	}
	return dept, nil
}

func (repo *academicsRepository) QuerySchoolDepartments(ctx context.Context, schoolID string) ([]academics.Department, error) {
	var depts []academics.Department
	query := `SELECT * FROM department WHERE school_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &depts, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	return depts, nil
}

func (repo *academicsRepository) CreateCourse(ctx context.Context, crs academics.Course) (academics.Course, error) {
	query := `
INSERT INTO course (id, school_id, department_id, name, code, created_at, updated_at)
VALUES (:id, :school_id, :department_id, :name, :code, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, crs); err != nil {
		return academics.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *academicsRepository) GetCourseByID(ctx context.Context, id string) (academics.Course, error) {
	var crs academics.Course
	if err := repo.db.GetContext(ctx, &crs, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Course{}, academics.ErrCourseNotFound
		}
		return academics.Course{}, errors.Wrap(err, "getting course")
	}
	return crs, nil
}

func (repo *academicsRepository) QuerySchoolCourses(ctx context.Context, schoolID string) ([]academics.Course, error) {
	var courses []academics.Course
	query := `SELECT * FROM course WHERE school_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &courses, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	row := classRow{
		ID:          cls.ID,
		SchoolID:    cls.SchoolID,
		CourseID:    cls.CourseID,
		Name:        cls.Name,
		ProfessorID: null.NewString(cls.ProfessorID, cls.ProfessorID != ""),
		CreatedAt:   cls.CreatedAt,
		UpdatedAt:   cls.UpdatedAt,
	}
	query := `
INSERT INTO class (id, school_id, course_id, name, professor_id, created_at, updated_at)
VALUES (:id, :school_id, :course_id, :name, :professor_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return academics.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *academicsRepository) QuerySchoolClasses(ctx context.Context, schoolID string) ([]academics.Class, error) {
	var rows []classRow
	query := `SELECT * FROM class WHERE school_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]academics.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toClass())
	}
	return classes, nil
}
