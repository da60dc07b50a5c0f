package domain

import "time"

// Teacher is a registered teacher account. ClassScope stores the resolved
// partition for the teacher's class: either the flat "classes/{code}" form
// or the nested "schools/{s}/teachers/{t}/classes/{c}" form, depending on
// which registration era created it.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	APIKey       string    `db:"api_key" json:"-"`
	SchoolName   string    `db:"school_name" json:"school_name,omitempty"`
	TeacherName  string    `db:"teacher_name" json:"teacher_name,omitempty"`
	ClassName    string    `db:"class_name" json:"class_name"`
	ClassScope   string    `db:"class_scope" json:"class_scope"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Role identifies what a session is allowed to do.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Session is the explicit per-request session object: created at login,
// carried in the JWT, and passed to each handler instead of ambient state.
type Session struct {
	Role        Role   `json:"role"`
	Scope       string `json:"scope"`
	TeacherID   string `json:"teacher_id,omitempty"`
	StudentCode string `json:"student_code,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}

// ClassState is the per-class aggregate row (donation thermometer).
type ClassState struct {
	Scope           string    `db:"scope" json:"-"`
	LoveTemperature float64   `db:"love_temperature" json:"love_temperature"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
