package academics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/onboarding"
)

var (
	// errors
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrNameExists         = errors.New("this name is already taken")
)

type (
	Repository interface {
		CheckDepartmentNameUniqueness(ctx context.Context, schoolID, name string) error
		CreateDepartment(ctx context.Context, dept Department) (Department, error)
		GetDepartmentByID(ctx context.Context, id string) (Department, error)
		QuerySchoolDepartments(ctx context.Context, schoolID string) ([]Department, error)

		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		QuerySchoolCourses(ctx context.Context, schoolID string) ([]Course, error)

		CreateClass(ctx context.Context, cls Class) (Class, error)
		QuerySchoolClasses(ctx context.Context, schoolID string) ([]Class, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateDepartments creates the departments in bulk. The whole batch is
// checked for name conflicts before anything is written so a failed request
// leaves no partial state behind.
func (svc *Service) CreateDepartments(ctx context.Context, schoolID string, data NewDepartments) ([]Department, onboarding.Patch, error) {
	seen := make(map[string]struct{}, len(data.Departments))
	for _, nd := range data.Departments {
		if _, ok := seen[nd.Name]; ok {
			return nil, onboarding.Patch{}, core.NewValidationError(ErrNameExists, core.FieldError{Field: "name", Error: ErrNameExists.Error()})
		}
		seen[nd.Name] = struct{}{}
		if err := svc.checkDepartmentUniqueness(ctx, schoolID, nd.Name); err != nil {
			return nil, onboarding.Patch{}, err
		}
	}

	now := time.Now().UTC()
	depts := make([]Department, 0, len(data.Departments))
	for _, nd := range data.Departments {
		dept := Department{
			ID:        uuid.New().String(),
			SchoolID:  schoolID,
			Name:      nd.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		dept, err := svc.repo.CreateDepartment(ctx, dept)
		if err != nil {
			return nil, onboarding.Patch{}, err
		}
		depts = append(depts, dept)
	}
	return depts, onboarding.Patch{DepartmentsCreated: true}, nil
}

func (svc *Service) checkDepartmentUniqueness(ctx context.Context, schoolID, name string) error {
	if err := svc.repo.CheckDepartmentNameUniqueness(ctx, schoolID, name); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) QueryDepartments(ctx context.Context, schoolID string) ([]Department, error) {
	return svc.repo.QuerySchoolDepartments(ctx, schoolID)
}

func (svc *Service) CreateCourse(ctx context.Context, schoolID string, data NewCourse) (Course, onboarding.Patch, error) {
	dept, err := svc.repo.GetDepartmentByID(ctx, data.DepartmentID)
	if err != nil {
		if err == ErrDepartmentNotFound {
			return Course{}, onboarding.Patch{}, core.NewValidationError(err, core.FieldError{Field: "department_id", Error: err.Error()})
		}
		return Course{}, onboarding.Patch{}, err
	}
	if dept.SchoolID != schoolID {
		err := ErrDepartmentNotFound
		return Course{}, onboarding.Patch{}, core.NewValidationError(err, core.FieldError{Field: "department_id", Error: err.Error()})
	}

	now := time.Now().UTC()
	crs := Course{
		ID:           uuid.New().String(),
		SchoolID:     schoolID,
		DepartmentID: dept.ID,
		Name:         data.Name,
		Code:         data.Code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	crs, err = svc.repo.CreateCourse(ctx, crs)
	if err != nil {
		return Course{}, onboarding.Patch{}, err
	}
	return crs, onboarding.Patch{CoursesCreated: true}, nil
}

func (svc *Service) QueryCourses(ctx context.Context, schoolID string) ([]Course, error) {
	return svc.repo.QuerySchoolCourses(ctx, schoolID)
}

func (svc *Service) CreateClass(ctx context.Context, schoolID string, data NewClass) (Class, onboarding.Patch, error) {
	crs, err := svc.repo.GetCourseByID(ctx, data.CourseID)
	if err != nil {
		if err == ErrCourseNotFound {
			return Class{}, onboarding.Patch{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return Class{}, onboarding.Patch{}, err
	}
	if crs.SchoolID != schoolID {
		err := ErrCourseNotFound
		return Class{}, onboarding.Patch{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
	}

	now := time.Now().UTC()
	cls := Class{
		ID:          uuid.New().String(),
		SchoolID:    schoolID,
		CourseID:    crs.ID,
		Name:        data.Name,
		ProfessorID: data.ProfessorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cls, err = svc.repo.CreateClass(ctx, cls)
	if err != nil {
		return Class{}, onboarding.Patch{}, err
	}
	return cls, onboarding.Patch{ClassesCreated: true}, nil
}

func (svc *Service) QueryClasses(ctx context.Context, schoolID string) ([]Class, error) {
	return svc.repo.QuerySchoolClasses(ctx, schoolID)
}
