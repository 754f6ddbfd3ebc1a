package student

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/onboarding"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckStudentEmailUniqueness(ctx context.Context, schoolID, email string) error
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QuerySchoolStudents(ctx context.Context, schoolID string) ([]Student, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Import loads the uploaded roster into the school. Rows are judged
// individually; a bad row is reported and skipped, not fatal. The returned
// patch claims the students step only when at least one student made it in.
func (svc *Service) Import(ctx context.Context, schoolID, filename string, r io.Reader) (ImportReport, onboarding.Patch, error) {
	rows, err := parseRoster(filename, r)
	if err != nil {
		return ImportReport{}, onboarding.Patch{}, err
	}

	var report ImportReport
	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		if reason := svc.checkRow(ctx, schoolID, row, seen); reason != "" {
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row.Row, Error: reason})
			continue
		}
		seen[row.Email] = struct{}{}

		st := Student{
			ID:        uuid.New().String(),
			SchoolID:  schoolID,
			Name:      row.Name,
			Email:     row.Email,
			Level:     row.Level,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := svc.repo.CreateStudent(ctx, st); err != nil {
			svc.logger.Error(fmt.Sprintf("importing student %s: %v", row.Email, err))
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row.Row, Error: "could not be saved"})
			continue
		}
		report.Imported++
	}

	return report, onboarding.Patch{StudentsImported: report.Imported > 0}, nil
}

func (svc *Service) checkRow(ctx context.Context, schoolID string, row rosterRow, seen map[string]struct{}) string {
	if row.Name == "" {
		return "name is required"
	}
	if row.Email == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(row.Email); err != nil {
		return "invalid email address"
	}
	if _, ok := seen[row.Email]; ok {
		return "duplicate email in file"
	}
	if err := svc.repo.CheckStudentEmailUniqueness(ctx, schoolID, row.Email); err != nil {
		if err == ErrEmailExists {
			return err.Error()
		}
		return "could not be saved"
	}
	return ""
}

func (svc *Service) QuerySchoolStudents(ctx context.Context, schoolID string) ([]Student, error) {
	return svc.repo.QuerySchoolStudents(ctx, schoolID)
}
