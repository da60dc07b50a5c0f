package service

import (
	"errors"
	"os"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT loads the signing secret from the environment. Must run before
// any token is issued or parsed.
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateSessionToken issues an HS256 token carrying the session object.
// The session replaces any browser-local storage of role/scope fields: it is
// created at login and dies with the token.
func GenerateSessionToken(s *domain.Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role":  string(s.Role),
		"scope": s.Scope,
		"exp":   now.Add(24 * time.Hour).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
	}
	if s.TeacherID != "" {
		claims["teacher_id"] = s.TeacherID
	}
	if s.StudentCode != "" {
		claims["student_code"] = s.StudentCode
		claims["student_name"] = s.StudentName
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseSessionToken validates a token and reconstructs the session.
func ParseSessionToken(tokenString string) (*domain.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return nil, errors.New("token expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return nil, errors.New("token not valid yet")
	}

	role, _ := claims["role"].(string)
	scope, _ := claims["scope"].(string)
	if role == "" || scope == "" {
		return nil, errors.New("session fields missing")
	}

	s := &domain.Session{
		Role:  domain.Role(role),
		Scope: scope,
	}
	if v, ok := claims["teacher_id"].(string); ok {
		s.TeacherID = v
	}
	if v, ok := claims["student_code"].(string); ok {
		s.StudentCode = v
	}
	if v, ok := claims["student_name"].(string); ok {
		s.StudentName = v
	}
	return s, nil
}
