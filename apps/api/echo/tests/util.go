package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/shulehub/shule/apps/api/echo"
	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/academics"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/staff"
	"github.com/shulehub/shule/core/student"
	emailsvc "github.com/shulehub/shule/services/email"
	dummydb "github.com/shulehub/shule/storage/database/dummy"
)

type testApp struct {
	server *echoapi.Server
	conf   *core.Config

	schoolRepo school.Repository
	staffRepo  staff.Repository
	obRepo     onboarding.Repository
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func setup(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	conf := &core.Config{
		TestMode:                  true,
		AppName:                   "Shule",
		SecretKey:                 "poq5-wer$#@",
		FrontendBaseURL:           "https://app.shule.test",
		InvitationExpirationDelta: 72 * time.Hour,
	}
	logger := testLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	schoolRepo := dummydb.NewSchoolRepository(db)
	obRepo := dummydb.NewOnboardingRepository(db)
	staffRepo := dummydb.NewStaffRepository(db)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		SchoolSvc:     school.NewService(schoolRepo),
		OnboardingSvc: onboarding.NewService(obRepo, logger),
		StaffSvc:      staff.NewService(staffRepo, mailSvc, conf),
		AcademicsSvc:  academics.NewService(dummydb.NewAcademicsRepository(db)),
		StudentSvc:    student.NewService(dummydb.NewStudentRepository(db), logger),
		Validate:      validate,
		Translator:    translator,
	})

	return &testApp{
		server:     server,
		conf:       conf,
		schoolRepo: schoolRepo,
		staffRepo:  staffRepo,
		obRepo:     obRepo,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// newUploadRequest builds a multipart upload with the given roster file.
func newUploadRequest(t *testing.T, path, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() failed, %v", err)
	}
	if _, err = fw.Write(content); err != nil {
		t.Fatalf("writing multipart file failed, %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed, %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeWorkflow(t *testing.T, rec *httptest.ResponseRecorder) echoapi.WorkflowResponse {
	t.Helper()
	var resp echoapi.WorkflowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding workflow response: %v; body: %s", err, rec.Body.String())
	}
	return resp
}
