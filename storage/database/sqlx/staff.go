package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

type memberRow struct {
	ID           string     `db:"id"`
	SchoolID     string     `db:"school_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	PasswordHash null.Bytes `db:"password_hash"`
	InvitedAt    time.Time  `db:"invited_at"`
	JoinedAt     null.Time  `db:"joined_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r memberRow) toMember() staff.Member {
	return staff.Member{
		ID:           r.ID,
		SchoolID:     r.SchoolID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		PasswordHash: r.PasswordHash.Bytes,
		InvitedAt:    r.InvitedAt,
		JoinedAt:     r.JoinedAt.Time,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newMemberRow(m staff.Member) memberRow {
	return memberRow{
		ID:           m.ID,
		SchoolID:     m.SchoolID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         m.Role,
		PasswordHash: null.NewBytes(m.PasswordHash, m.PasswordHash != nil),
		InvitedAt:    m.InvitedAt,
		JoinedAt:     null.NewTime(m.JoinedAt.UTC(), !m.JoinedAt.IsZero()),
		UpdatedAt:    m.UpdatedAt,
	}
}

func (repo *staffRepository) CheckStaffEmailUniqueness(ctx context.Context, schoolID, email string) error {
	var count int
	query := `SELECT COUNT(*) FROM staff_member WHERE school_id = $1 AND email = $2`
	if err := repo.db.GetContext(ctx, &count, query, schoolID, email); err != nil {
		return errors.Wrap(err, "checking staff email")
	}
	if count > 0 {
		return staff.ErrEmailExists
	}
	return nil
}

func (repo *staffRepository) CreateMember(ctx context.Context, m staff.Member) (staff.Member, error) {
	query := `
INSERT INTO staff_member (id, school_id, name, email, role, password_hash, invited_at, joined_at, updated_at)
VALUES (:id, :school_id, :name, :email, :role, :password_hash, :invited_at, :joined_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, newMemberRow(m)); err != nil {
		return staff.Member{}, errors.Wrap(err, "creating staff member")
	}
	return m, nil
}

func (repo *staffRepository) GetMemberByID(ctx context.Context, id string) (staff.Member, error) {
	var row memberRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM staff_member WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return staff.Member{}, staff.ErrNotFound
		}
		return staff.Member{}, errors.Wrap(err, "getting staff member")
	}
	return row.toMember(), nil
}

func (repo *staffRepository) GetMemberByEmail(ctx context.Context, schoolID, email string) (staff.Member, error) {
	var row memberRow
	query := `SELECT * FROM staff_member WHERE school_id = $1 AND email = $2`
	if err := repo.db.GetContext(ctx, &row, query, schoolID, email); err != nil {
		if err == sql.ErrNoRows {
			return staff.Member{}, staff.ErrNotFound
		}
		return staff.Member{}, errors.Wrap(err, "getting staff member")
	}
	return row.toMember(), nil
}

func (repo *staffRepository) QuerySchoolMembers(ctx context.Context, schoolID string) ([]staff.Member, error) {
	var rows []memberRow
	query := `SELECT * FROM staff_member WHERE school_id = $1 ORDER BY invited_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying staff members")
	}
	members := make([]staff.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toMember())
	}
	return members, nil
}

func (repo *staffRepository) UpdateMember(ctx context.Context, m staff.Member) (staff.Member, error) {
	query := `
UPDATE staff_member
SET name = :name, email = :email, role = :role, password_hash = :password_hash,
    joined_at = :joined_at, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, newMemberRow(m))
	if err != nil {
		return staff.Member{}, errors.Wrap(err, "updating staff member")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.Member{}, staff.ErrNotFound
	}
	return m, nil
}
