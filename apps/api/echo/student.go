package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/student"
)

var errMissingFile = errors.New("a roster file is required")

type studentApi struct {
	svc       *student.Service
	schoolSvc *school.Service
	obSvc     *onboarding.Service
}

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{
		svc:       deps.StudentSvc,
		schoolSvc: deps.SchoolSvc,
		obSvc:     deps.OnboardingSvc,
	}

	sg := g.Group("/schools/:id/students")
	sg.POST("/import", api.importRoster)
	sg.GET("", api.query)
}

// Handlers

// importRoster accepts a multipart "file" upload (.csv or .xlsx) and reports
// the students step when at least one row made it in.
func (api *studentApi) importRoster(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sch, err := api.schoolSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(errMissingFile, core.FieldError{Field: "file", Error: errMissingFile.Error()})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening roster upload")
	}
	defer func() { _ = f.Close() }()

	report, patch, err := api.svc.Import(reqCtx, sch.ID, fh.Filename, f)
	if err != nil {
		return err
	}
	if !patch.IsZero() {
		if _, err = api.obSvc.Report(reqCtx, sch.ID, onboarding.StepStudents, patch); err != nil {
			return errors.Wrap(err, "reporting students step")
		}
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *studentApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sch, err := api.schoolSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	students, err := api.svc.QuerySchoolStudents(reqCtx, sch.ID)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}
