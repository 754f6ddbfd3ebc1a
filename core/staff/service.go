package staff

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
)

var (
	// errors
	ErrNotFound    = errors.New("staff member not found")
	ErrEmailExists = errors.New("a staff member with this email already exists")
)

type (
	Repository interface {
		CheckStaffEmailUniqueness(ctx context.Context, schoolID, email string) error
		CreateMember(ctx context.Context, m Member) (Member, error)
		GetMemberByID(ctx context.Context, id string) (Member, error)
		GetMemberByEmail(ctx context.Context, schoolID, email string) (Member, error)
		QuerySchoolMembers(ctx context.Context, schoolID string) ([]Member, error)
		UpdateMember(ctx context.Context, m Member) (Member, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Invite registers the invitees as pending members of the school, emails each
// one a signed invitation link, and returns the onboarding status patch the
// invitations prove: admin_staff_invited and/or professors_invited depending
// on the roles sent.
func (svc *Service) Invite(ctx context.Context, sch school.School, data NewInvites) ([]Member, onboarding.Patch, error) {
	var patch onboarding.Patch

	now := time.Now().UTC()
	members := make([]Member, 0, len(data.Invites))
	messages := make([]*core.EmailMessage, 0, len(data.Invites))

	for _, inv := range data.Invites {
		if err := svc.checkUniqueness(ctx, sch.ID, inv.Email); err != nil {
			return nil, onboarding.Patch{}, err
		}

		m := Member{
			ID:        uuid.New().String(),
			SchoolID:  sch.ID,
			Name:      inv.Name,
			Email:     inv.Email,
			Role:      inv.Role,
			InvitedAt: now,
			UpdatedAt: now,
		}
		m, err := svc.repo.CreateMember(ctx, m)
		if err != nil {
			return nil, onboarding.Patch{}, pkgerrors.Wrap(err, "creating staff member")
		}

		msg, err := svc.invitationMessage(sch, m)
		if err != nil {
			return nil, onboarding.Patch{}, err
		}
		members = append(members, m)
		messages = append(messages, msg)

		switch m.Role {
		case RoleAdmin:
			patch.AdminStaffInvited = true
		case RoleProfessor:
			patch.ProfessorsInvited = true
		}
	}

	svc.mailSvc.SendMessages(messages...)
	return members, patch, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, schoolID, email string) error {
	if err := svc.repo.CheckStaffEmailUniqueness(ctx, schoolID, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) invitationMessage(sch school.School, m Member) (*core.EmailMessage, error) {
	token, err := MakeInviteToken(svc.conf, m)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/staff/invitations/accept?token=%s", svc.conf.FrontendBaseURL, url.QueryEscape(token))

	return &core.EmailMessage{
		To:      []mail.Address{{Name: m.Name, Address: m.Email}},
		Subject: fmt.Sprintf("You have been invited to join %s", sch.Name),
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\n%s has invited you to join their school on %s as a %s.\r\n"+
				"Follow the link below to set your password and activate your account:\r\n\r\n%s\r\n\r\n"+
				"This invitation expires in %d days.\r\n",
			m.Name, sch.Name, svc.conf.AppName, m.Role, link,
			int(svc.conf.InvitationExpirationDelta.Hours()/24),
		),
	}, nil
}

// Accept activates the invited member identified by the invitation token.
func (svc *Service) Accept(ctx context.Context, data AcceptInvitation) (Member, error) {
	claims, err := VerifyInviteToken(svc.conf, data.Token)
	if err != nil {
		return Member{}, core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}

	m, err := svc.repo.GetMemberByEmail(ctx, claims.SchoolID, claims.Subject)
	if err != nil {
		if err == ErrNotFound {
			return Member{}, core.NewValidationError(errInvalidToken, core.FieldError{Field: "token", Error: errInvalidToken.Error()})
		}
		return Member{}, pkgerrors.Wrap(err, "finding invited member")
	}
	if m.Joined() {
		return Member{}, core.NewValidationError(errors.New("invitation already accepted"))
	}

	if err := checkPasswordSimilarity(data.Password, m); err != nil {
		return Member{}, err
	}
	if err := m.SetPassword(data.Password); err != nil {
		return Member{}, pkgerrors.Wrap(err, "setting password")
	}

	now := time.Now().UTC()
	m.JoinedAt = now
	m.UpdatedAt = now
	return svc.repo.UpdateMember(ctx, m)
}

func (svc *Service) QuerySchoolMembers(ctx context.Context, schoolID string) ([]Member, error) {
	return svc.repo.QuerySchoolMembers(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return svc.repo.GetMemberByID(ctx, id)
}
