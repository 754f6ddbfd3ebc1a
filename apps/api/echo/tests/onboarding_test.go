package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	echoapi "github.com/shulehub/shule/apps/api/echo"
	"github.com/shulehub/shule/core/academics"
	"github.com/shulehub/shule/core/onboarding"
	testutil "github.com/shulehub/shule/tests"
)

func Test_onboardingApi_wizardFlow(t *testing.T) {
	app := setup(t)
	sch := testutil.CreateSchool(t, app.schoolRepo, "Hilltop Academy", "info@hilltop.ac")
	base := "/v1/schools/" + sch.ID + "/onboarding"

	// fresh wizard
	req, rec := newRequest(http.MethodGet, base)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET onboarding failed: %d %s", rec.Code, rec.Body.String())
	}
	resp := decodeWorkflow(t, rec)
	if resp.ActiveStep != onboarding.StepProfile {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepProfile)
	}
	if resp.Finished || resp.Degraded || resp.CanFinalize {
		t.Errorf("fresh wizard: finished=%v degraded=%v canFinalize=%v; want all false",
			resp.Finished, resp.Degraded, resp.CanFinalize)
	}
	if resp.Status.CompletionPercentage != 0 {
		t.Errorf("completion = %d; want 0", resp.Status.CompletionPercentage)
	}
	if len(resp.Steps) != 7 {
		t.Errorf("steps = %d; want 7", len(resp.Steps))
	}

	// finalize refused while the gate is closed
	req, rec = newRequest(http.MethodPost, base+"/finalize")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("early finalize: code = %d; want %d", rec.Code, http.StatusConflict)
	}

	// profile step
	req, rec = newRequest(http.MethodPut, "/v1/schools/"+sch.ID+"/profile", []byte(`{
		"address": "12 Hilltop Rd", "city": "Kinshasa", "country": "CD",
		"phone": "+243 000 000", "timezone": "Africa/Kinshasa"
	}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile update failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = wizardState(t, app, base)
	if !resp.Status.ProfileCompleted {
		t.Error("profile_completed not set")
	}
	if resp.Status.CompletionPercentage != 20 {
		t.Errorf("completion = %d; want 20", resp.Status.CompletionPercentage)
	}
	if resp.ActiveStep != onboarding.StepDepartments {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepDepartments)
	}

	// departments step
	req, rec = newRequest(http.MethodPost, "/v1/schools/"+sch.ID+"/departments", []byte(`{
		"departments": [{"name": "Mathematics"}, {"name": "Science"}]
	}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("departments failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = wizardState(t, app, base)
	if resp.Status.CompletionPercentage != 40 {
		t.Errorf("completion = %d; want 40", resp.Status.CompletionPercentage)
	}
	if resp.ActiveStep != onboarding.StepStaff {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepStaff)
	}

	// staff step: professors only; satisfies staffing by substitution
	req, rec = newRequest(http.MethodPost, "/v1/schools/"+sch.ID+"/staff/invites", []byte(`{
		"invites": [{"name": "Awa Traore", "email": "awa@hilltop.ac", "role": "professor"}]
	}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invites failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = wizardState(t, app, base)
	if resp.Status.AdminStaffInvited {
		t.Error("admin_staff_invited set; only professors were invited")
	}
	if !resp.Status.ProfessorsInvited {
		t.Error("professors_invited not set")
	}
	if resp.Status.CompletionPercentage != 60 {
		t.Errorf("completion = %d; want 60", resp.Status.CompletionPercentage)
	}

	// courses step
	deptID := departmentID(t, app, sch.ID)
	req, rec = newRequest(http.MethodPost, "/v1/schools/"+sch.ID+"/courses",
		[]byte(fmt.Sprintf(`{"department_id": %q, "name": "Algebra I", "code": "MATH101"}`, deptID)))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("course failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = wizardState(t, app, base)
	if resp.Status.CompletionPercentage != 80 {
		t.Errorf("completion = %d; want 80", resp.Status.CompletionPercentage)
	}
	if resp.ActiveStep != onboarding.StepStudents {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepStudents)
	}

	// students step: CSV roster upload
	roster := []byte("name,email,level\nBen Okoro,ben@students.hilltop.ac,Grade 10\n")
	req, rec = newUploadRequest(t, "/v1/schools/"+sch.ID+"/students/import", "roster.csv", roster)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = wizardState(t, app, base)
	if resp.Status.CompletionPercentage != 100 {
		t.Errorf("completion = %d; want 100", resp.Status.CompletionPercentage)
	}
	if resp.ActiveStep != onboarding.StepIntegrations {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepIntegrations)
	}
	if !resp.CanFinalize {
		t.Error("gate closed with all required steps complete")
	}

	// navigation is free
	req, rec = newRequest(http.MethodPost, base+"/retreat")
	app.server.ServeHTTP(rec, req)
	if resp = decodeWorkflow(t, rec); resp.ActiveStep != onboarding.StepStudents {
		t.Errorf("after retreat: active step = %s; want %s", resp.ActiveStep, onboarding.StepStudents)
	}
	req, rec = newRequest(http.MethodPost, base+"/jump", []byte(`{"step": "analytics"}`))
	app.server.ServeHTTP(rec, req)
	if resp = decodeWorkflow(t, rec); resp.ActiveStep != onboarding.StepAnalytics {
		t.Errorf("after jump: active step = %s; want %s", resp.ActiveStep, onboarding.StepAnalytics)
	}
	req, rec = newRequest(http.MethodPost, base+"/jump", []byte(`{"step": "lol"}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("jump to unknown step: code = %d; want %d", rec.Code, http.StatusNotFound)
	}

	// acking the last step with the gate open finalizes
	req, rec = newRequest(http.MethodPost, base+"/steps/analytics/complete")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics ack failed: %d %s", rec.Code, rec.Body.String())
	}
	resp = decodeWorkflow(t, rec)
	if !resp.Finished {
		t.Error("wizard not finished after last-step ack with open gate")
	}
	if resp.ActiveStep != onboarding.StepFinished {
		t.Errorf("active step = %s; want %s", resp.ActiveStep, onboarding.StepFinished)
	}
	if !resp.Status.OnboardingCompleted {
		t.Error("onboarding_completed not set")
	}

	// terminal state: finalize is idempotent, navigation no-ops
	req, rec = newRequest(http.MethodPost, base+"/finalize")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat finalize: code = %d; want %d", rec.Code, http.StatusOK)
	}
	req, rec = newRequest(http.MethodPost, base+"/retreat")
	app.server.ServeHTTP(rec, req)
	if resp = decodeWorkflow(t, rec); resp.ActiveStep != onboarding.StepFinished {
		t.Errorf("retreat after finish: active step = %s; want %s", resp.ActiveStep, onboarding.StepFinished)
	}

	// the school record is stamped
	sch2, err := app.schoolRepo.GetSchoolByID(req.Context(), sch.ID)
	if err != nil {
		t.Fatalf("GetSchoolByID() failed, %v", err)
	}
	if !sch2.Onboarded() {
		t.Error("school not stamped onboarded")
	}
}

func Test_onboardingApi_unknownSchool(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "retrieve", method: http.MethodGet, path: "/v1/schools/nope/onboarding",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "school not found"})},
		{name: "advance", method: http.MethodPost, path: "/v1/schools/nope/onboarding/advance",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "school not found"})},
		{name: "finalize", method: http.MethodPost, path: "/v1/schools/nope/onboarding/finalize",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "school not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_onboardingApi_stepReportOffCursor(t *testing.T) {
	app := setup(t)
	sch := testutil.CreateSchool(t, app.schoolRepo, "Valley School", "info@valley.ac")
	base := "/v1/schools/" + sch.ID + "/onboarding"

	// report departments while profile is active: flag applies, cursor stays
	req, rec := newRequest(http.MethodPost, "/v1/schools/"+sch.ID+"/departments", []byte(`{
		"departments": [{"name": "Arts"}]
	}`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("departments failed: %d %s", rec.Code, rec.Body.String())
	}

	resp := wizardState(t, app, base)
	if !resp.Status.DepartmentsCreated {
		t.Error("departments_created not set")
	}
	if resp.ActiveStep != onboarding.StepProfile {
		t.Errorf("active step = %s; want %s (cursor must not move)", resp.ActiveStep, onboarding.StepProfile)
	}
	if resp.Status.CompletionPercentage != 20 {
		t.Errorf("completion = %d; want 20", resp.Status.CompletionPercentage)
	}
}

// wizardState fetches and decodes the current wizard state.
func wizardState(t *testing.T, app *testApp, base string) echoapi.WorkflowResponse {
	t.Helper()
	req, rec := newRequest(http.MethodGet, base)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s failed: %d %s", base, rec.Code, rec.Body.String())
	}
	return decodeWorkflow(t, rec)
}

// departmentID returns the id of the school's first department.
func departmentID(t *testing.T, app *testApp, schoolID string) string {
	t.Helper()
	req, rec := newRequest(http.MethodGet, "/v1/schools/"+schoolID+"/departments")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET departments failed: %d %s", rec.Code, rec.Body.String())
	}
	var depts []academics.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &depts); err != nil {
		t.Fatalf("decoding departments: %v", err)
	}
	if len(depts) == 0 {
		t.Fatal("no departments found")
	}
	return depts[0].ID
}
