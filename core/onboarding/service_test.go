package onboarding

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

type fakeRepo struct {
	mu       sync.Mutex
	statuses map[string]Status
	fetchErr error
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{statuses: make(map[string]Status)}
}

func (r *fakeRepo) GetSchoolStatus(ctx context.Context, schoolID string) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return Status{}, r.fetchErr
	}
	return r.statuses[schoolID], nil
}

func (r *fakeRepo) ApplyStatusPatch(ctx context.Context, schoolID string, patch Patch) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.statuses[schoolID].Merge(patch)
	r.statuses[schoolID] = st
	return st, nil
}

func (r *fakeRepo) MarkSchoolOnboarded(ctx context.Context, schoolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.statuses[schoolID]
	st.OnboardingCompleted = true
	r.statuses[schoolID] = st
	return nil
}

func (r *fakeRepo) QueryIncompleteStatuses(ctx context.Context) ([]SchoolStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SchoolStatus, 0, len(r.statuses))
	for id, st := range r.statuses {
		if !st.OnboardingCompleted {
			out = append(out, SchoolStatus{SchoolID: id, Status: st})
		}
	}
	return out, nil
}

type testLogger struct{ std *log.Logger }

func newTestLogger() *testLogger {
	return &testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

func (l *testLogger) Debug(msg string, args ...interface{}) { l.std.Println(msg) }
func (l *testLogger) Info(msg string, args ...interface{})  { l.std.Println(msg) }
func (l *testLogger) Warn(msg string, args ...interface{})  { l.std.Println(msg) }
func (l *testLogger) Error(msg string, args ...interface{}) { l.std.Println(msg) }
func (l *testLogger) Fatal(msg string, args ...interface{}) { l.std.Println(msg) }

func TestServiceWorkflowCaching(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), newTestLogger())

	wf1 := svc.Workflow(ctx, "school-1")
	wf2 := svc.Workflow(ctx, "school-1")
	if wf1 != wf2 {
		t.Error("Workflow() returned distinct engines for the same school")
	}
	if other := svc.Workflow(ctx, "school-2"); other == wf1 {
		t.Error("Workflow() shared an engine across schools")
	}
}

func TestServiceWorkflowDegraded(t *testing.T) {
	repo := newFakeRepo()
	repo.fetchErr = errors.New("db down")
	svc := NewService(repo, newTestLogger())

	wf := svc.Workflow(context.Background(), "school-1")
	if wf == nil {
		t.Fatal("Workflow() = nil on fetch failure")
	}
	if !wf.Degraded() {
		t.Error("engine not degraded on fetch failure")
	}
}

func TestServiceWorkflowRecovery(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.statuses["school-1"] = Status{ProfileCompleted: true}
	repo.fetchErr = errors.New("db down")
	svc := NewService(repo, newTestLogger())

	if wf := svc.Workflow(ctx, "school-1"); !wf.Degraded() {
		t.Fatal("engine not degraded on fetch failure")
	}

	// the status source recovers: the next access must refetch instead of
	// reusing the degraded all-false engine
	repo.fetchErr = nil
	wf := svc.Workflow(ctx, "school-1")
	if wf.Degraded() {
		t.Error("degraded engine was cached past the outage")
	}
	if !wf.Status().ProfileCompleted {
		t.Error("recovered engine is missing the persisted record")
	}
	if svc.Workflow(ctx, "school-1") != wf {
		t.Error("healthy engine not cached")
	}
}

func TestServiceReportPersistsPatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, newTestLogger())

	wf, err := svc.Report(ctx, "school-1", StepProfile, Patch{ProfileCompleted: true})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if got := wf.ActiveStepID(); got != StepDepartments {
		t.Errorf("ActiveStepID() = %s; want %s", got, StepDepartments)
	}

	persisted, err := repo.GetSchoolStatus(ctx, "school-1")
	if err != nil {
		t.Fatal(err)
	}
	if !persisted.ProfileCompleted {
		t.Error("patch was not persisted")
	}
}

func TestServiceFinalize(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.statuses["school-1"] = Status{
		ProfileCompleted:   true,
		DepartmentsCreated: true,
		ProfessorsInvited:  true,
		CoursesCreated:     true,
		StudentsImported:   true,
	}
	svc := NewService(repo, newTestLogger())

	wf, err := svc.Finalize(ctx, "school-1")
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !wf.Finished() {
		t.Error("Finished() = false after service finalize")
	}
	persisted, _ := repo.GetSchoolStatus(ctx, "school-1")
	if !persisted.OnboardingCompleted {
		t.Error("onboarding_completed not persisted")
	}

	incomplete, err := svc.QueryIncomplete(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range incomplete {
		if st.SchoolID == "school-1" {
			t.Error("finalized school listed as incomplete")
		}
	}
}
