package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	ContactEmail string    `db:"contact_email"`
	Address      string    `db:"address"`
	City         string    `db:"city"`
	Country      string    `db:"country"`
	Phone        string    `db:"phone"`
	Website      string    `db:"website"`
	Timezone     string    `db:"timezone"`
	OnboardedAt  null.Time `db:"onboarded_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r schoolRow) toSchool() school.School {
	return school.School{
		ID:           r.ID,
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		Address:      r.Address,
		City:         r.City,
		Country:      r.Country,
		Phone:        r.Phone,
		Website:      r.Website,
		Timezone:     r.Timezone,
		OnboardedAt:  r.OnboardedAt.Time,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newSchoolRow(sch school.School) schoolRow {
	return schoolRow{
		ID:           sch.ID,
		Name:         sch.Name,
		ContactEmail: sch.ContactEmail,
		Address:      sch.Address,
		City:         sch.City,
		Country:      sch.Country,
		Phone:        sch.Phone,
		Website:      sch.Website,
		Timezone:     sch.Timezone,
		OnboardedAt:  null.NewTime(sch.OnboardedAt.UTC(), !sch.OnboardedAt.IsZero()),
		CreatedAt:    sch.CreatedAt,
		UpdatedAt:    sch.UpdatedAt,
	}
}

func (repo *schoolRepository) CheckSchoolNameUniqueness(ctx context.Context, name string, excludedSchools ...school.School) error {
	query := `SELECT COUNT(*) FROM school WHERE name = $1`
	args := []interface{}{name}
	if len(excludedSchools) > 0 {
		ids := make([]string, 0, len(excludedSchools))
		for _, sch := range excludedSchools {
			ids = append(ids, sch.ID)
		}
		query += ` AND id != ALL($2)`
		args = append(args, pq.Array(ids))
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking school name")
	}
	if count > 0 {
		return school.ErrNameExists
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	query := `
INSERT INTO school (id, name, contact_email, address, city, country, phone, website, timezone, onboarded_at, created_at, updated_at)
VALUES (:id, :name, :contact_email, :address, :city, :country, :phone, :website, :timezone, :onboarded_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, newSchoolRow(sch)); err != nil {
		return school.School{}, errors.Wrap(err, "creating school")
	}
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM school WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school")
	}
	return row.toSchool(), nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM school ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, row.toSchool())
	}
	return schools, nil
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	query := `
UPDATE school
SET name = :name, contact_email = :contact_email, address = :address, city = :city, country = :country,
    phone = :phone, website = :website, timezone = :timezone, onboarded_at = :onboarded_at, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, newSchoolRow(sch))
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return sch, nil
}
