package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/englishpoc/core/user"
	"github.com/trezcool/englishpoc/tests"
)

func TestServer_home(t *testing.T) {
	app := setup(t)

	rec := app.do(httpTest{path: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to English POC API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_trailingSlash(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.userRepo, "jane", "", user.RoleStudent)

	rec := app.do(httpTest{path: "/api/auth/me/", token: getToken(t, usr)})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_notFound(t *testing.T) {
	app := setup(t)
	app.run(t, httpTest{name: "unknown route", path: "/api/lol", wantCode: http.StatusNotFound, wantData: marshalObj(t, errResp("Not Found"))})
}

func TestServer_metrics(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.userRepo, "jane", "", user.RoleStudent)

	app.do(httpTest{path: "/api/auth/me", apiKey: testAPIKey})
	app.do(httpTest{path: "/api/auth/me", apiKey: "lol"})
	app.do(httpTest{path: "/api/auth/me", token: getToken(t, usr)})
	app.do(httpTest{path: "/api/auth/me", token: getToken(t, usr)})
	app.do(httpTest{path: "/api/auth/me"})

	rec := app.do(httpTest{path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, line := range []string{
		`englishpoc_auth_attempts_total{method="api_key",outcome="accepted"} 1`,
		`englishpoc_auth_attempts_total{method="api_key",outcome="rejected"} 1`,
		`englishpoc_auth_attempts_total{method="bearer",outcome="accepted"} 2`,
		`englishpoc_auth_attempts_total{method="none",outcome="rejected"} 1`,
		"go_goroutines",
	} {
		assert.Contains(t, body, line)
	}

	// each server owns its registry
	other := setup(t)
	rec = other.do(httpTest{path: "/metrics"})
	assert.NotContains(t, rec.Body.String(), `method="bearer"`)
}
