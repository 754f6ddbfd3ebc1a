package student

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shulehub/shule/core"
)

type fakeRepo struct {
	mu       sync.Mutex
	students map[string]Student
	failNext bool
}

func newFakeRepo() *fakeRepo { return &fakeRepo{students: make(map[string]Student)} }

func (r *fakeRepo) CheckStudentEmailUniqueness(ctx context.Context, schoolID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.students {
		if st.SchoolID == schoolID && st.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateStudent(ctx context.Context, st Student) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return Student{}, assert.AnError
	}
	r.students[st.ID] = st
	return st, nil
}

func (r *fakeRepo) QuerySchoolStudents(ctx context.Context, schoolID string) ([]Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sts []Student
	for _, st := range r.students {
		if st.SchoolID == schoolID {
			sts = append(sts, st)
		}
	}
	return sts, nil
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func xlsxRoster(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestServiceImportCSV(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, testLogger{})

	csvData := strings.Join([]string{
		"name,email,level",
		"Awa Traore,awa@students.hilltop.ac,Grade 10",
		"Ben Okoro,ben@students.hilltop.ac,Grade 11",
		"No Email,,Grade 9",
		"Bad Email,not-an-email,Grade 9",
		"Awa Again,awa@students.hilltop.ac,Grade 10",
	}, "\n")

	report, patch, err := svc.Import(ctx, "sch1", "roster.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Failed)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, 4, report.Errors[0].Row)
	assert.True(t, patch.StudentsImported)

	students, err := svc.QuerySchoolStudents(ctx, "sch1")
	require.NoError(t, err)
	assert.Len(t, students, 2)

	// re-importing the same roster imports nothing new
	report, patch, err = svc.Import(ctx, "sch1", "roster.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.False(t, patch.StudentsImported)
}

func TestServiceImportXLSX(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), testLogger{})

	r := xlsxRoster(t, [][]interface{}{
		{"Name", "Email", "Level"},
		{"Awa Traore", "awa@students.hilltop.ac", "Grade 10"},
		{"", "", ""},
		{"Ben Okoro", "ben@students.hilltop.ac", "Grade 11"},
	})

	report, patch, err := svc.Import(ctx, "sch1", "roster.xlsx", r)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, patch.StudentsImported)
}

func TestServiceImportRejects(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), testLogger{})
	var verr *core.ValidationError

	// unknown extension
	_, _, err := svc.Import(ctx, "sch1", "roster.pdf", strings.NewReader("x"))
	require.ErrorAs(t, err, &verr)

	// missing header
	_, _, err = svc.Import(ctx, "sch1", "roster.csv", strings.NewReader("Awa,awa@x.ac,10\n"))
	require.ErrorAs(t, err, &verr)

	// header only
	_, _, err = svc.Import(ctx, "sch1", "roster.csv", strings.NewReader("name,email,level\n"))
	require.ErrorAs(t, err, &verr)

	// row failing persistence is reported, not fatal
	repo := newFakeRepo()
	repo.failNext = true
	svc = NewService(repo, testLogger{})
	report, patch, err := svc.Import(ctx, "sch1", "roster.csv",
		strings.NewReader("name,email,level\nAwa,awa@x.ac,10\nBen,ben@x.ac,11\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, patch.StudentsImported)
}
