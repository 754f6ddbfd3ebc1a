package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/school"
)

// createSchool registers a new school tenant; onboarding starts from scratch.
func (cli *commandLine) createSchool(name, email string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	if err := cli.schoolRepo.CheckSchoolNameUniqueness(ctx, name); err != nil {
		return err
	}

	now := time.Now().UTC()
	sch := school.School{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := cli.schoolRepo.CreateSchool(ctx, sch); err != nil {
		return err
	}
	return nil
}
