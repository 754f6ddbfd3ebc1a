package school

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
	ErrNotFound   = errors.New("school not found")
	ErrNameExists = errors.New("a school with this name already exists")
)

type (
	Repository interface {
		CheckSchoolNameUniqueness(ctx context.Context, name string, excludedSchools ...School) error
		CreateSchool(ctx context.Context, sch School) (School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string, exclSchools ...School) error {
	if err := svc.repo.CheckSchoolNameUniqueness(context.Background(), name, exclSchools...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	now := time.Now().UTC()
	sch := School{
		ID:           uuid.New().String(),
		Name:         ns.Name,
		ContactEmail: ns.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

// UpdateProfile saves the wizard's profile fields and returns the status
// patch the update proves: the profile step is complete once every required
// field is on record.
func (svc *Service) UpdateProfile(ctx context.Context, id string, up UpdateSchoolProfile) (School, onboarding.Patch, error) {
	sch, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, onboarding.Patch{}, err
	}

	sch.Address = up.Address
	sch.City = up.City
	sch.Country = up.Country
	sch.Phone = up.Phone
	sch.Website = up.Website
	sch.Timezone = up.Timezone
	sch.UpdatedAt = time.Now().UTC()

	sch, err = svc.repo.UpdateSchool(ctx, sch)
	if err != nil {
		return School{}, onboarding.Patch{}, err
	}
	return sch, onboarding.Patch{ProfileCompleted: sch.HasCompleteProfile()}, nil
}
