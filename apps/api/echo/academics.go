package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/academics"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
)

type academicsApi struct {
	svc       *academics.Service
	schoolSvc *school.Service
	obSvc     *onboarding.Service
	validate  *validator.Validate
}

func registerAcademicsAPI(g *echo.Group, deps ServerDeps) {
	api := academicsApi{
		svc:       deps.AcademicsSvc,
		schoolSvc: deps.SchoolSvc,
		obSvc:     deps.OnboardingSvc,
		validate:  deps.Validate,
	}

	sg := g.Group("/schools/:id")
	sg.POST("/departments", api.createDepartments)
	sg.GET("/departments", api.queryDepartments)
	sg.POST("/courses", api.createCourse)
	sg.GET("/courses", api.queryCourses)
	sg.POST("/classes", api.createClass)
	sg.GET("/classes", api.queryClasses)
}

func (api *academicsApi) getSchoolID(ctx echo.Context) (string, error) {
	sch, err := api.schoolSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return "", err
	}
	return sch.ID, nil
}

// Handlers

func (api *academicsApi) createDepartments(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewDepartments
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartments")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	depts, patch, err := api.svc.CreateDepartments(reqCtx, schoolID, data)
	if err != nil {
		return err
	}
	if _, err = api.obSvc.Report(reqCtx, schoolID, onboarding.StepDepartments, patch); err != nil {
		return errors.Wrap(err, "reporting departments step")
	}
	return ctx.JSON(http.StatusCreated, depts)
}

func (api *academicsApi) queryDepartments(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	depts, err := api.svc.QueryDepartments(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *academicsApi) createCourse(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	crs, patch, err := api.svc.CreateCourse(reqCtx, schoolID, data)
	if err != nil {
		return err
	}
	if _, err = api.obSvc.Report(reqCtx, schoolID, onboarding.StepCourses, patch); err != nil {
		return errors.Wrap(err, "reporting courses step")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *academicsApi) queryCourses(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCourses(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

// createClass reports against the courses step: classes live in the same
// wizard step and classes_created does not gate finalization.
func (api *academicsApi) createClass(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	cls, patch, err := api.svc.CreateClass(reqCtx, schoolID, data)
	if err != nil {
		return err
	}
	if _, err = api.obSvc.Report(reqCtx, schoolID, onboarding.StepCourses, patch); err != nil {
		return errors.Wrap(err, "reporting courses step")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *academicsApi) queryClasses(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.QueryClasses(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}
