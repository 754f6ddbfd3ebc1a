package academics

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shulehub/shule/core"
)

type (
	// Department groups the school's courses by discipline.
	Department struct {
		ID        string    `json:"id" db:"id"`
		SchoolID  string    `json:"school_id" db:"school_id"`
		Name      string    `json:"name" db:"name"`
		CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	// Course is a subject taught by the school, attached to a department.
	Course struct {
		ID           string    `json:"id" db:"id"`
		SchoolID     string    `json:"school_id" db:"school_id"`
		DepartmentID string    `json:"department_id" db:"department_id"`
		Name         string    `json:"name" db:"name"`
		Code         string    `json:"code,omitempty" db:"code"`
		CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	// Class is a scheduled section of a course, optionally led by a professor.
	Class struct {
		ID          string    `json:"id"`
		SchoolID    string    `json:"school_id"`
		CourseID    string    `json:"course_id"`
		Name        string    `json:"name"`
		ProfessorID string    `json:"professor_id,omitempty"`
		CreatedAt   time.Time `json:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at"` // UTC
	}
)

// NewDepartment is a single department in the wizard's bulk creation payload.
type NewDepartment struct {
	Name string `json:"name" validate:"required"`
}

type NewDepartments struct {
	Departments []NewDepartment `json:"departments" validate:"required,min=1,dive"`
}

func (nd *NewDepartments) Validate(validate *validator.Validate) error {
	for i := range nd.Departments {
		nd.Departments[i].Name = core.CleanString(nd.Departments[i].Name)
	}
	return validate.Struct(nd)
}

type NewCourse struct {
	DepartmentID string `json:"department_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	return validate.Struct(nc)
}

type NewClass struct {
	CourseID    string `json:"course_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ProfessorID string `json:"professor_id"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}
