package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
)

type schoolApi struct {
	svc        *school.Service
	obSvc      *onboarding.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerSchoolAPI(g *echo.Group, deps ServerDeps) {
	api := schoolApi{
		svc:        deps.SchoolSvc,
		obSvc:      deps.OnboardingSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/schools")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id/profile", api.updateProfile)
}

// Handlers

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	sch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

// updateProfile saves the wizard's profile fields and reports the profile
// step to the school's onboarding workflow.
func (api *schoolApi) updateProfile(ctx echo.Context) error {
	var data school.UpdateSchoolProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchoolProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	sch, patch, err := api.svc.UpdateProfile(reqCtx, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	if _, err = api.obSvc.Report(reqCtx, sch.ID, onboarding.StepProfile, patch); err != nil {
		return errors.Wrap(err, "reporting profile step")
	}
	return ctx.JSON(http.StatusOK, sch)
}
