package service

import (
	"os"
	"testing"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	InitJWT()
}

func TestSessionTokenRoundTrip(t *testing.T) {
	initTestJWT(t)

	in := &domain.Session{
		Role:        domain.RoleStudent,
		Scope:       "classes/ABC123",
		StudentCode: "1203",
		StudentName: "Jisoo",
	}

	token, err := GenerateSessionToken(in)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if out.Role != in.Role || out.Scope != in.Scope {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if out.StudentCode != in.StudentCode || out.StudentName != in.StudentName {
		t.Fatalf("student fields lost: %+v", out)
	}
	if out.TeacherID != "" {
		t.Fatalf("unexpected teacher id %q on student session", out.TeacherID)
	}
}

func TestSessionTokenTampered(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateSessionToken(&domain.Session{
		Role:  domain.RoleTeacher,
		Scope: "classes/ABC123",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseSessionToken(token + "x"); err == nil {
		t.Fatal("tampered token accepted")
	}
	if _, err := ParseSessionToken("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
