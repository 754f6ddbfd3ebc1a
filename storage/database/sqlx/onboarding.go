package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/onboarding"
)

type onboardingRepository struct {
	db *sqlx.DB
}

var _ onboarding.Repository = (*onboardingRepository)(nil) // interface compliance check

func NewOnboardingRepository(db *sqlx.DB) *onboardingRepository {
	return &onboardingRepository{db: db}
}

const statusColumns = `profile_completed, departments_created, admin_staff_invited, professors_invited,
	courses_created, classes_created, students_imported, onboarding_completed`

func (repo *onboardingRepository) GetSchoolStatus(ctx context.Context, schoolID string) (onboarding.Status, error) {
	var st onboarding.Status
	query := `SELECT ` + statusColumns + ` FROM school_onboarding_status WHERE school_id = $1`
	if err := repo.db.GetContext(ctx, &st, query, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return onboarding.Status{}, nil // no row yet: nothing done
		}
		return onboarding.Status{}, errors.Wrap(err, "getting onboarding status")
	}
	return st, nil
}

// ApplyStatusPatch upserts the patch onto the school's row. Each flag is OR'ed
// with its stored value so a patch can only move flags forward.
func (repo *onboardingRepository) ApplyStatusPatch(ctx context.Context, schoolID string, patch onboarding.Patch) (onboarding.Status, error) {
	query := `
INSERT INTO school_onboarding_status
	(school_id, profile_completed, departments_created, admin_staff_invited, professors_invited,
	 courses_created, classes_created, students_imported, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (school_id) DO UPDATE SET
	profile_completed    = school_onboarding_status.profile_completed OR EXCLUDED.profile_completed,
	departments_created  = school_onboarding_status.departments_created OR EXCLUDED.departments_created,
	admin_staff_invited  = school_onboarding_status.admin_staff_invited OR EXCLUDED.admin_staff_invited,
	professors_invited   = school_onboarding_status.professors_invited OR EXCLUDED.professors_invited,
	courses_created      = school_onboarding_status.courses_created OR EXCLUDED.courses_created,
	classes_created      = school_onboarding_status.classes_created OR EXCLUDED.classes_created,
	students_imported    = school_onboarding_status.students_imported OR EXCLUDED.students_imported,
	updated_at           = EXCLUDED.updated_at
RETURNING ` + statusColumns

	var st onboarding.Status
	err := repo.db.GetContext(ctx, &st, query, schoolID,
		patch.ProfileCompleted, patch.DepartmentsCreated, patch.AdminStaffInvited, patch.ProfessorsInvited,
		patch.CoursesCreated, patch.ClassesCreated, patch.StudentsImported, time.Now().UTC())
	if err != nil {
		return onboarding.Status{}, errors.Wrap(err, "applying status patch")
	}
	return st, nil
}

func (repo *onboardingRepository) MarkSchoolOnboarded(ctx context.Context, schoolID string) error {
	now := time.Now().UTC()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
INSERT INTO school_onboarding_status (school_id, onboarding_completed, updated_at)
VALUES ($1, TRUE, $2)
ON CONFLICT (school_id) DO UPDATE SET onboarding_completed = TRUE, updated_at = EXCLUDED.updated_at`
	if _, err = tx.ExecContext(ctx, query, schoolID, now); err != nil {
		return errors.Wrap(err, "marking school onboarded")
	}
	if _, err = tx.ExecContext(ctx, `UPDATE school SET onboarded_at = $2, updated_at = $2 WHERE id = $1`, schoolID, now); err != nil {
		return errors.Wrap(err, "stamping school onboarded_at")
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

// QueryIncompleteStatuses lists all schools still onboarding, including those
// that have never reported a step.
func (repo *onboardingRepository) QueryIncompleteStatuses(ctx context.Context) ([]onboarding.SchoolStatus, error) {
	var stats []onboarding.SchoolStatus
	query := `
SELECT s.id AS school_id,
	COALESCE(o.profile_completed, FALSE)    AS profile_completed,
	COALESCE(o.departments_created, FALSE)  AS departments_created,
	COALESCE(o.admin_staff_invited, FALSE)  AS admin_staff_invited,
	COALESCE(o.professors_invited, FALSE)   AS professors_invited,
	COALESCE(o.courses_created, FALSE)      AS courses_created,
	COALESCE(o.classes_created, FALSE)      AS classes_created,
	COALESCE(o.students_imported, FALSE)    AS students_imported,
	COALESCE(o.onboarding_completed, FALSE) AS onboarding_completed
FROM school s
LEFT JOIN school_onboarding_status o ON o.school_id = s.id
WHERE s.onboarded_at IS NULL`
	if err := repo.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, errors.Wrap(err, "querying incomplete statuses")
	}
	return stats, nil
}
