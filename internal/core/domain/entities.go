package domain

// Identity represents the acting user. It is passed explicitly into every
// state-changing service call — there is no global current-user singleton.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	Department  string
}

// Departments is the fixed set an item may belong to.
var Departments = []string{
	"IT",
	"Engineering",
	"Business",
	"Education",
	"Arts and Sciences",
}

// ValidDepartment reports whether dept is one of the known departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
