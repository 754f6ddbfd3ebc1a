package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/staff"
)

type staffApi struct {
	svc       *staff.Service
	schoolSvc *school.Service
	obSvc     *onboarding.Service
	validate  *validator.Validate
}

func registerStaffAPI(g *echo.Group, deps ServerDeps) {
	api := staffApi{
		svc:       deps.StaffSvc,
		schoolSvc: deps.SchoolSvc,
		obSvc:     deps.OnboardingSvc,
		validate:  deps.Validate,
	}

	sg := g.Group("/schools/:id/staff")
	sg.POST("/invites", api.invite)
	sg.GET("", api.query)

	g.POST("/staff/invitations/accept", api.acceptInvitation)
}

// Handlers

// invite sends the invitations and reports the staff step with the roles
// actually invited.
func (api *staffApi) invite(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sch, err := api.schoolSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data staff.NewInvites
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvites")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	members, patch, err := api.svc.Invite(reqCtx, sch, data)
	if err != nil {
		return err
	}
	if _, err = api.obSvc.Report(reqCtx, sch.ID, onboarding.StepStaff, patch); err != nil {
		return errors.Wrap(err, "reporting staff step")
	}
	return ctx.JSON(http.StatusCreated, members)
}

func (api *staffApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sch, err := api.schoolSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	members, err := api.svc.QuerySchoolMembers(reqCtx, sch.ID)
	if err != nil {
		return errors.Wrap(err, "querying staff members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *staffApi) acceptInvitation(ctx echo.Context) error {
	var data staff.AcceptInvitation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AcceptInvitation")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, err := api.svc.Accept(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}
