package classpath

import "strings"

// Scope is the resolved partition key for one classroom's data. Two path
// eras exist: flat "classes/{code}" registrations and nested
// "schools/{school}/teachers/{teacher}/classes/{class}" registrations.
// The sentinel GlobalCode resolves to the platform-owned partition.
type Scope string

const (
	// GlobalCode is the sentinel class identifier for the admin/global
	// management context.
	GlobalCode = "GLOBAL"

	// GlobalScope is the partition holding platform-shared shop items.
	GlobalScope Scope = "admin/global"

	classesPrefix = "classes/"
)

// Resolve turns a class identifier into its partition scope.
// Identifiers that already contain a slash are full nested paths and are
// used as-is; bare codes get the flat classes/ prefix.
func Resolve(code string) Scope {
	if code == GlobalCode {
		return GlobalScope
	}
	if strings.Contains(code, "/") {
		return Scope(code)
	}
	return Scope(classesPrefix + code)
}

// Nested builds a nested-era scope from its components. Slashes inside the
// names would break the path, so they are replaced before joining.
func Nested(school, teacher, class string) Scope {
	return Scope("schools/" + sanitize(school) + "/teachers/" + sanitize(teacher) + "/classes/" + sanitize(class))
}

// IsGlobal reports whether s is the platform-shared partition.
func (s Scope) IsGlobal() bool {
	return s == GlobalScope
}

func (s Scope) String() string {
	return string(s)
}

func sanitize(part string) string {
	return strings.ReplaceAll(part, "/", "_")
}
