package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/englishpoc/apps/api/echo"
	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
	"github.com/trezcool/englishpoc/core/grammar"
	"github.com/trezcool/englishpoc/core/student"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
	"github.com/trezcool/englishpoc/services/logger"
	"github.com/trezcool/englishpoc/storage/database/inmem"
)

const (
	testAPIKey = "test-api-key"
	unknownID  = "5f8d0d55b54764421b7156c9"
)

var ctx = context.Background()

var conf = &core.Config{
	Env:           "TEST",
	TestMode:      true,
	AppName:       "English POC",
	SecretKey:     "secret",
	APIClientKeys: []string{testAPIKey, "other-key"},
	Server: core.ServerConfig{
		CORSOrigins:               []string{"*"},
		JWTExpirationDelta:        10 * time.Minute,
		JWTRefreshExpirationDelta: 4 * time.Hour,
	},
}

// testApp is a fully wired server backed by a fresh in-memory store.
type testApp struct {
	server       *Server
	userRepo     user.Repository
	studentRepo  student.Repository
	templateRepo assignment.Repository
	lessonRepo   grammar.Repository
	linkRepo     sa.Repository
}

// setupOption alters the repositories before the services are built on them.
type setupOption func(app *testApp)

func setup(t *testing.T, opts ...setupOption) *testApp {
	db := inmemdb.Open()
	app := &testApp{
		userRepo:     inmemdb.NewUserRepository(db),
		studentRepo:  inmemdb.NewStudentRepository(db),
		templateRepo: inmemdb.NewTemplateRepository(db),
		lessonRepo:   inmemdb.NewLessonRepository(db),
		linkRepo:     inmemdb.NewLinkRepository(db),
	}
	for _, opt := range opts {
		opt(app)
	}

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)
	sa.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	userSvc := user.NewService(app.userRepo)
	studentSvc := student.NewService(app.studentRepo, app.userRepo)
	grammarSvc := grammar.NewService(app.lessonRepo)

	app.server = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        userSvc,
		StudentSvc:     studentSvc,
		AssignmentSvc:  assignment.NewService(app.templateRepo, app.lessonRepo),
		LinkSvc:        sa.NewService(app.linkRepo, app.studentRepo, app.templateRepo),
		GrammarSvc:     grammarSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = app.server.Close() })
	return app
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	apiKey   string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token, apiKey string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	if tt.method == "" {
		tt.method = http.MethodGet
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.apiKey, tt.body)
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) run(t *testing.T, tests ...httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func marshalList[T any](t *testing.T, objs ...T) []byte {
	if objs == nil {
		objs = []T{}
	}
	return marshalObj(t, objs)
}

func errResp(msg string, fields ...string) ErrorResponse {
	resp := ErrorResponse{Message: msg}
	if len(fields) > 0 {
		resp.Errors = make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			resp.Errors[fields[i]] = fields[i+1]
		}
	}
	return resp
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
	return v
}
