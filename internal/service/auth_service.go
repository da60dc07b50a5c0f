package service

import (
	"context"
	"errors"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTeacherExists      = errors.New("teacher id already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrClassNotFound      = errors.New("no teacher registered for this class")
	ErrStudentNotInClass  = errors.New("student not found in this class")
)

// AuthService handles teacher registration and the two login paths.
// Students never hold an API key of their own; they authenticate through
// the key of the teacher who registered their class.
type AuthService struct {
	teachers *repository.TeacherRepository
	students *repository.StudentRepository
	dahandin *dahandin.Client
	adminIDs map[string]bool
}

func NewAuthService(db *pgxpool.Pool, client *dahandin.Client, adminIDs []string) *AuthService {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &AuthService{
		teachers: repository.NewTeacherRepository(db),
		students: repository.NewStudentRepository(db),
		dahandin: client,
		adminIDs: admins,
	}
}

type RegisterTeacherRequest struct {
	ID          string
	Password    string
	APIKey      string
	SchoolName  string
	TeacherName string
	ClassName   string
	ClassCode   string
}

// RegisterTeacher stores a teacher account. A class code produces the flat
// scope; otherwise the scope is derived from school/teacher/class names.
func (s *AuthService) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*domain.Teacher, error) {
	existing, err := s.teachers.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTeacherExists
	}

	var scope classpath.Scope
	if req.ClassCode != "" {
		scope = classpath.Resolve(req.ClassCode)
	} else {
		scope = classpath.Nested(req.SchoolName, req.TeacherName, req.ClassName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	teacher := &domain.Teacher{
		ID:           req.ID,
		PasswordHash: hash,
		APIKey:       req.APIKey,
		SchoolName:   req.SchoolName,
		TeacherName:  req.TeacherName,
		ClassName:    req.ClassName,
		ClassScope:   scope.String(),
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// LoginTeacher verifies the password and issues a session token. IDs on
// the admin list get the admin role, which unlocks the global scope.
func (s *AuthService) LoginTeacher(ctx context.Context, id, password string) (string, *domain.Session, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if teacher == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(teacher.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Role:      domain.RoleTeacher,
		Scope:     teacher.ClassScope,
		TeacherID: teacher.ID,
	}
	if s.adminIDs[teacher.ID] {
		session.Role = domain.RoleAdmin
		session.Scope = classpath.GlobalScope.String()
	}

	token, err := GenerateSessionToken(session)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// LoginStudent resolves the class, borrows the registering teacher's API
// key to confirm the student exists upstream, mirrors the roster entry and
// issues a session token.
func (s *AuthService) LoginStudent(ctx context.Context, classCode, studentCode string) (string, *domain.Session, *dahandin.StudentTotal, error) {
	scope := classpath.Resolve(classCode)

	teacher, err := s.teachers.GetByClassScope(ctx, scope.String())
	if err != nil {
		return "", nil, nil, err
	}
	if teacher == nil {
		return "", nil, nil, ErrClassNotFound
	}

	total, err := s.dahandin.GetStudentTotal(ctx, teacher.APIKey, studentCode)
	if err != nil {
		var upstream *dahandin.ErrUpstream
		if errors.As(err, &upstream) && upstream.StatusCode == 404 {
			return "", nil, nil, ErrStudentNotInClass
		}
		return "", nil, nil, err
	}

	if err := s.students.Sync(ctx, scope, total.Code, total.Name); err != nil {
		return "", nil, nil, err
	}

	session := &domain.Session{
		Role:        domain.RoleStudent,
		Scope:       scope.String(),
		StudentCode: total.Code,
		StudentName: total.Name,
	}
	token, err := GenerateSessionToken(session)
	if err != nil {
		return "", nil, nil, err
	}
	return token, session, total, nil
}

// APIKeyFor returns the key a session is allowed to use against the
// upstream API: the teacher's own, or the class teacher's for students.
func (s *AuthService) APIKeyFor(ctx context.Context, session *domain.Session) (string, error) {
	if session.TeacherID != "" {
		teacher, err := s.teachers.GetByID(ctx, session.TeacherID)
		if err != nil {
			return "", err
		}
		if teacher == nil {
			return "", ErrInvalidCredentials
		}
		return teacher.APIKey, nil
	}

	teacher, err := s.teachers.GetByClassScope(ctx, session.Scope)
	if err != nil {
		return "", err
	}
	if teacher == nil {
		return "", ErrClassNotFound
	}
	return teacher.APIKey, nil
}
