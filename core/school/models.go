package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shulehub/shule/core"
)

// School is a tenant on the platform.
type School struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Phone        string    `json:"phone"`
	Website      string    `json:"website"`
	Timezone     string    `json:"timezone"`
	OnboardedAt  time.Time `json:"onboarded_at,omitempty"` // UTC; zero until onboarding completes
	CreatedAt    time.Time `json:"created_at"`             // UTC
	UpdatedAt    time.Time `json:"updated_at"`             // UTC
}

// Onboarded reports whether the school has finished the onboarding wizard.
func (s School) Onboarded() bool { return !s.OnboardedAt.IsZero() }

// HasCompleteProfile reports whether every profile field the wizard requires
// has been provided. This is the domain fact behind the profile step.
func (s School) HasCompleteProfile() bool {
	return s.Address != "" && s.City != "" && s.Country != "" && s.Phone != "" && s.Timezone != ""
}

// NewSchool contains information needed to register a new School.
type NewSchool struct {
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
}

func (ns *NewSchool) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.ContactEmail = core.CleanString(ns.ContactEmail, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Name)
}

// UpdateSchoolProfile defines the profile information collected by the
// onboarding wizard. All fields but Website are required: a successful update
// completes the profile step.
type UpdateSchoolProfile struct {
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Website  string `json:"website" validate:"omitempty,url"`
	Timezone string `json:"timezone" validate:"required"`
}

func (up *UpdateSchoolProfile) Validate(validate *validator.Validate) error {
	up.Address = core.CleanString(up.Address)
	up.City = core.CleanString(up.City)
	up.Country = core.CleanString(up.Country)
	up.Phone = core.CleanString(up.Phone)
	up.Website = core.CleanString(up.Website, true /* lower */)
	up.Timezone = core.CleanString(up.Timezone)
	return validate.Struct(up)
}
