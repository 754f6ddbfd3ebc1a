package staff

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulehub/shule/core"
)

// Roles
const (
	// RoleAdmin runs the school back office.
	RoleAdmin = "admin"
	// RoleProfessor teaches classes.
	RoleProfessor = "professor"
)

var Roles = []string{RoleAdmin, RoleProfessor}

// Member is a member of a school's staff. A member starts out invited and
// becomes active once the invitation is accepted.
type Member struct {
	ID           string    `json:"id"`
	SchoolID     string    `json:"school_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	InvitedAt    time.Time `json:"invited_at"`           // UTC
	JoinedAt     time.Time `json:"joined_at,omitempty"`  // UTC; zero until accepted
	UpdatedAt    time.Time `json:"updated_at,omitempty"` // UTC
}

func (m *Member) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = hash
	return nil
}

func (m *Member) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(m.PasswordHash, []byte(pwd))
}

func (m Member) IsAdmin() bool     { return m.Role == RoleAdmin }
func (m Member) IsProfessor() bool { return m.Role == RoleProfessor }
func (m Member) Joined() bool      { return !m.JoinedAt.IsZero() }

// NewInvite is a single staff invitation request.
type NewInvite struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,staffrole"`
}

// NewInvites is the bulk invitation payload sent by the onboarding wizard.
type NewInvites struct {
	Invites []NewInvite `json:"invites" validate:"required,min=1,dive"`
}

func (ni *NewInvites) Validate(validate *validator.Validate) error {
	for i := range ni.Invites {
		inv := &ni.Invites[i]
		inv.Name = core.CleanString(inv.Name)
		inv.Email = core.CleanString(inv.Email, true /* lower */)
		inv.Role = core.CleanString(inv.Role, true /* lower */)
	}
	return validate.Struct(ni)
}

// AcceptInvitation activates an invited member's account.
type AcceptInvitation struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ai *AcceptInvitation) Validate(validate *validator.Validate) error {
	ai.Token = strings.TrimSpace(ai.Token)
	return validate.Struct(ai)
}
