package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/englishpoc/core/assignment"
	"github.com/trezcool/englishpoc/core/grammar"
	"github.com/trezcool/englishpoc/core/student"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
)

func tstamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateUser(t *testing.T, repo user.Repository, uname, pwd string, role user.Role, createdAt ...time.Time) user.User {
	ts := tstamp(createdAt)
	usr := user.User{
		Username:  uname,
		Role:      role,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo student.Repository, name, level string, userID *string, createdAt ...time.Time) student.Student {
	ts := tstamp(createdAt)
	std, err := repo.CreateStudent(context.Background(), student.Student{
		Name:      name,
		Level:     level,
		UserID:    userID,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return std
}

func CreateLesson(t *testing.T, repo grammar.Repository, title, slug string, order int, createdAt ...time.Time) grammar.Lesson {
	ts := tstamp(createdAt)
	lsn, err := repo.CreateLesson(context.Background(), grammar.Lesson{
		Title:     title,
		Slug:      slug,
		Order:     order,
		Content:   "# " + title,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}
	return lsn
}

func CreateTemplate(
	t *testing.T,
	repo assignment.Repository,
	title string,
	typ assignment.Type,
	lessonID *string,
	createdAt ...time.Time,
) assignment.Template {
	ts := tstamp(createdAt)
	tmpl, err := repo.CreateTemplate(context.Background(), assignment.Template{
		Title:           title,
		Description:     title + " description",
		Type:            typ,
		GrammarLessonID: lessonID,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	})
	if err != nil {
		t.Fatalf("CreateTemplate(): %v", err)
	}
	return tmpl
}

func CreateLink(
	t *testing.T,
	repo sa.Repository,
	studentID, assignmentID string,
	status sa.Status,
	assignedAt ...time.Time,
) sa.Link {
	ts := tstamp(assignedAt)
	lnk := sa.Link{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Status:       status,
		AssignedAt:   ts,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if status == sa.StatusSubmitted || status == sa.StatusCompleted {
		lnk.SubmissionContent = "my work"
		lnk.SubmittedAt = &ts
	}
	lnk, err := repo.CreateLink(context.Background(), lnk)
	if err != nil {
		t.Fatalf("CreateLink(): %v", err)
	}
	return lnk
}

func StrPtr(s string) *string { return &s }
