package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
)

type onboardingApi struct {
	svc       *onboarding.Service
	schoolSvc *school.Service
}

func registerOnboardingAPI(g *echo.Group, deps ServerDeps) {
	api := onboardingApi{
		svc:       deps.OnboardingSvc,
		schoolSvc: deps.SchoolSvc,
	}

	og := g.Group("/schools/:id/onboarding")
	og.GET("", api.retrieve)
	og.POST("/advance", api.advance)
	og.POST("/retreat", api.retreat)
	og.POST("/jump", api.jump)
	og.POST("/steps/:step/complete", api.completeStep)
	og.POST("/finalize", api.finalize)
}

// getSchoolID resolves the path school, so unknown schools 404 before the
// engine is touched.
func (api *onboardingApi) getSchoolID(ctx echo.Context) (string, error) {
	sch, err := api.schoolSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return "", err
	}
	return sch.ID, nil
}

// Handlers

func (api *onboardingApi) retrieve(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	wf := api.svc.Workflow(ctx.Request().Context(), schoolID)
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}

func (api *onboardingApi) advance(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	wf := api.svc.Workflow(reqCtx, schoolID)
	if err = wf.Advance(reqCtx); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}

func (api *onboardingApi) retreat(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	wf := api.svc.Workflow(ctx.Request().Context(), schoolID)
	wf.Retreat()
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}

type jumpRequest struct {
	Step onboarding.StepID `json:"step"`
}

func (api *onboardingApi) jump(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	var data jumpRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to jumpRequest")
	}

	wf := api.svc.Workflow(ctx.Request().Context(), schoolID)
	if err = wf.JumpTo(data.Step); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}

// completeStep acknowledges a step without a domain action of its own: the
// opt-in steps (integrations, analytics) and re-acks of completed steps.
// Domain facts come from the step actions themselves, so the patch here is
// always empty.
func (api *onboardingApi) completeStep(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	wf, err := api.svc.Report(ctx.Request().Context(), schoolID, onboarding.StepID(ctx.Param("step")), onboarding.Patch{})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}

func (api *onboardingApi) finalize(ctx echo.Context) error {
	schoolID, err := api.getSchoolID(ctx)
	if err != nil {
		return err
	}
	wf, err := api.svc.Finalize(ctx.Request().Context(), schoolID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWorkflowResponse(schoolID, wf))
}
