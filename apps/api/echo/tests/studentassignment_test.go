package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/englishpoc/apps/api/echo"
	"github.com/trezcool/englishpoc/core/assignment"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
	"github.com/trezcool/englishpoc/tests"
)

// classroom is a teacher with two linked students (jane, bob) and one unlinked student user (carl).
type classroom struct {
	*testApp
	teacherToken, janeToken, bobToken, carlToken string
	janeStdID, bobStdID                          string
	tmpl                                         assignment.Template
}

func setupClassroom(t *testing.T) *classroom {
	app := setup(t)
	teacher := testutil.CreateUser(t, app.userRepo, "teacher", "", user.RoleTeacher)
	jane := testutil.CreateUser(t, app.userRepo, "jane", "", user.RoleStudent)
	bob := testutil.CreateUser(t, app.userRepo, "bob", "", user.RoleStudent)
	carl := testutil.CreateUser(t, app.userRepo, "carl", "", user.RoleStudent)

	return &classroom{
		testApp:      app,
		teacherToken: getToken(t, teacher),
		janeToken:    getToken(t, jane),
		bobToken:     getToken(t, bob),
		carlToken:    getToken(t, carl),
		janeStdID:    testutil.CreateStudent(t, app.studentRepo, "Jane", "B1", &jane.ID).ID,
		bobStdID:     testutil.CreateStudent(t, app.studentRepo, "Bob", "A2", &bob.ID).ID,
		tmpl:         testutil.CreateTemplate(t, app.templateRepo, "My holidays", assignment.TypeEssay, nil),
	}
}

func Test_studentAssignmentApi_create(t *testing.T) {
	app := setupClassroom(t)

	type body = map[string]string
	app.run(t,
		httpTest{
			name: "students cannot assign", method: http.MethodPost, path: "/api/student-assignments", token: app.janeToken,
			body: marshalObj(t, body{"studentId": app.janeStdID, "assignmentId": app.tmpl.ID}), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errResp("forbidden: insufficient permissions")),
		},
		httpTest{
			name: "required fields", method: http.MethodPost, path: "/api/student-assignments", token: app.teacherToken,
			body: marshalObj(t, body{}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, errResp("invalid data",
				"studentId", "this field is required",
				"assignmentId", "this field is required",
			)),
		},
		httpTest{
			name: "unknown student", method: http.MethodPost, path: "/api/student-assignments", token: app.teacherToken,
			body: marshalObj(t, body{"studentId": unknownID, "assignmentId": app.tmpl.ID}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, errResp("studentId: student does not exist", "studentId", "student does not exist")),
		},
		httpTest{
			name: "unknown assignment", method: http.MethodPost, path: "/api/student-assignments", token: app.teacherToken,
			body: marshalObj(t, body{"studentId": app.janeStdID, "assignmentId": unknownID}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, errResp("assignmentId: assignment does not exist", "assignmentId", "assignment does not exist")),
		},
	)

	due := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.FixedZone("WAT", 3600))
	rec := app.do(httpTest{
		method: http.MethodPost, path: "/api/student-assignments", token: app.teacherToken,
		body: marshalObj(t, map[string]interface{}{"studentId": app.janeStdID, "assignmentId": app.tmpl.ID, "dueDate": due}),
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	lnk := decode[sa.Link](t, rec)
	assert.NotEmpty(t, lnk.ID)
	assert.Equal(t, sa.StatusPending, lnk.Status)
	assert.Equal(t, app.janeStdID, lnk.StudentID)
	assert.Equal(t, app.tmpl.ID, lnk.AssignmentID)
	assert.Nil(t, lnk.SubmittedAt)
	assert.False(t, lnk.AssignedAt.IsZero())
	if assert.NotNil(t, lnk.DueDate) {
		assert.True(t, due.Equal(*lnk.DueDate))
		assert.Equal(t, time.UTC, lnk.DueDate.Location())
	}
}

func Test_studentAssignmentApi_read(t *testing.T) {
	app := setupClassroom(t)

	now := time.Now()
	janeOld := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusCompleted, now.Add(-2*time.Hour))
	janeNew := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusPending, now)
	bobs := testutil.CreateLink(t, app.linkRepo, app.bobStdID, app.tmpl.ID, sa.StatusInProgress, now.Add(-time.Hour))

	path := "/api/student-assignments"
	app.run(t,
		httpTest{name: "teacher sees all (newest first)", path: path, token: app.teacherToken, wantData: marshalList(t, janeNew, bobs, janeOld)},
		httpTest{name: "teacher filters by student", path: path + "?studentId=" + app.bobStdID, token: app.teacherToken, wantData: marshalList(t, bobs)},
		httpTest{name: "system sees all", path: path, apiKey: testAPIKey, wantData: marshalList(t, janeNew, bobs, janeOld)},
		httpTest{name: "student sees own", path: path, token: app.janeToken, wantData: marshalList(t, janeNew, janeOld)},
		httpTest{name: "student filter on self", path: path + "?studentId=" + app.janeStdID, token: app.janeToken, wantData: marshalList(t, janeNew, janeOld)},
		httpTest{name: "student filter on others", path: path + "?studentId=" + app.bobStdID, token: app.janeToken, wantData: marshalList[sa.Link](t)},
		httpTest{name: "unlinked student sees nothing", path: path, token: app.carlToken, wantData: marshalList[sa.Link](t)},
		httpTest{name: "retrieve own", path: path + "/" + bobs.ID, token: app.bobToken, wantData: marshalObj(t, bobs)},
		httpTest{name: "teacher retrieves any", path: path + "/" + bobs.ID, token: app.teacherToken, wantData: marshalObj(t, bobs)},
		httpTest{
			name: "others are hidden", path: path + "/" + bobs.ID, token: app.janeToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, errResp("student assignment not found")),
		},
		httpTest{
			name: "hidden from unlinked students", path: path + "/" + bobs.ID, token: app.carlToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, errResp("student assignment not found")),
		},
		httpTest{
			name: "unknown link", path: path + "/" + unknownID, token: app.teacherToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, errResp("student assignment not found")),
		},
	)
}

func Test_studentAssignmentApi_update(t *testing.T) {
	app := setupClassroom(t)
	path := func(lnk sa.Link) string { return "/api/student-assignments/" + lnk.ID }

	pending := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusPending)
	inProgress := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusInProgress)
	submitted := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusSubmitted)
	completed := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusCompleted)
	bobs := testutil.CreateLink(t, app.linkRepo, app.bobStdID, app.tmpl.ID, sa.StatusPending)

	type body = map[string]string
	app.run(t,
		httpTest{
			name: "invalid status", method: http.MethodPatch, path: path(pending), token: app.janeToken,
			body: marshalObj(t, body{"status": "done"}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, errResp("invalid data", "status", "status must be one of: pending, in-progress, submitted, completed")),
		},
		httpTest{
			name: "others' links are hidden", method: http.MethodPatch, path: path(bobs), token: app.janeToken,
			body: marshalObj(t, body{"status": "in-progress"}), wantCode: http.StatusNotFound,
			wantData: marshalObj(t, errResp("student assignment not found")),
		},
		httpTest{
			name: "students cannot review", method: http.MethodPatch, path: path(submitted), token: app.janeToken,
			body: marshalObj(t, body{"grade": "A+"}), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errResp("only teachers can give feedback and grades")),
		},
		httpTest{
			name: "students cannot complete", method: http.MethodPatch, path: path(submitted), token: app.janeToken,
			body: marshalObj(t, body{"status": "completed"}), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errResp("students can only start or submit their assignments")),
		},
		httpTest{
			name: "no skipping steps", method: http.MethodPatch, path: path(pending), token: app.teacherToken,
			body: marshalObj(t, body{"status": "submitted", "submissionContent": "my work"}), wantCode: http.StatusConflict,
			wantData: marshalObj(t, errResp("invalid status transition from pending to submitted")),
		},
		httpTest{
			name: "no going back", method: http.MethodPatch, path: path(submitted), token: app.teacherToken,
			body: marshalObj(t, body{"status": "in-progress"}), wantCode: http.StatusConflict,
			wantData: marshalObj(t, errResp("invalid status transition from submitted to in-progress")),
		},
		httpTest{
			name: "completed is final", method: http.MethodPatch, path: path(completed), apiKey: testAPIKey,
			body: marshalObj(t, body{"status": "pending"}), wantCode: http.StatusConflict,
			wantData: marshalObj(t, errResp("invalid status transition from completed to pending")),
		},
		httpTest{
			name: "completed submission is frozen", method: http.MethodPatch, path: path(completed), token: app.teacherToken,
			body: marshalObj(t, body{"submissionContent": "rewritten"}), wantCode: http.StatusConflict,
			wantData: marshalObj(t, errResp("the submission of a completed assignment cannot be changed")),
		},
		httpTest{
			name: "submitting needs content", method: http.MethodPatch, path: path(inProgress), token: app.janeToken,
			body: marshalObj(t, body{"status": "submitted", "submissionContent": "  "}), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, errResp("submissionContent: submission content is required to submit",
				"submissionContent", "submission content is required to submit")),
		},
	)

	t.Run("student walks the workflow", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPatch, path: path(pending), token: app.janeToken, body: marshalObj(t, body{"status": "IN-PROGRESS"})})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, sa.StatusInProgress, decode[sa.Link](t, rec).Status)

		rec = app.do(httpTest{method: http.MethodPatch, path: path(pending), token: app.janeToken, body: marshalObj(t, body{"submissionContent": "draft"})})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		draft := decode[sa.Link](t, rec)
		assert.Equal(t, sa.StatusInProgress, draft.Status)
		assert.Equal(t, "draft", draft.SubmissionContent)
		assert.NotNil(t, draft.SubmittedAt)

		rec = app.do(httpTest{method: http.MethodPatch, path: path(pending), token: app.janeToken, body: marshalObj(t, body{"status": "submitted"})})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		sub := decode[sa.Link](t, rec)
		assert.Equal(t, sa.StatusSubmitted, sub.Status)
		assert.Equal(t, "draft", sub.SubmissionContent)
	})

	t.Run("teacher reviews", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPatch, path: path(submitted), token: app.teacherToken,
			body: marshalObj(t, body{"status": "completed", "teacherFeedback": "Well done", "grade": "A"}),
		})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		lnk := decode[sa.Link](t, rec)
		assert.Equal(t, sa.StatusCompleted, lnk.Status)
		assert.Equal(t, "Well done", lnk.TeacherFeedback)
		assert.Equal(t, "A", lnk.Grade)
		assert.Equal(t, submitted.SubmissionContent, lnk.SubmissionContent)
	})

	t.Run("completed links can still be annotated", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPatch, path: path(completed), token: app.teacherToken, body: marshalObj(t, body{"grade": "B"})})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "B", decode[sa.Link](t, rec).Grade)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPatch, path: path(completed), token: app.janeToken, body: marshalObj(t, body{"status": "completed"})})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, sa.StatusCompleted, decode[sa.Link](t, rec).Status)
	})
}

func Test_studentAssignmentApi_destroy(t *testing.T) {
	app := setupClassroom(t)
	lnk := testutil.CreateLink(t, app.linkRepo, app.janeStdID, app.tmpl.ID, sa.StatusPending)
	path := "/api/student-assignments/" + lnk.ID

	app.run(t,
		httpTest{
			name: "students cannot delete", method: http.MethodDelete, path: path, token: app.janeToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, errResp("forbidden: insufficient permissions")),
		},
		httpTest{
			name: "deleted", method: http.MethodDelete, path: path, token: app.teacherToken,
			wantData: marshalObj(t, MessageResponse{Message: "student assignment deleted successfully"}),
		},
		httpTest{
			name: "already deleted", method: http.MethodDelete, path: path, token: app.teacherToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, errResp("student assignment not found")),
		},
	)
}
