package employee

// Employee is the directory entry linking a user to the department whose
// policy governs their attendance.
type Employee struct {
	ID         string
	UserID     string
	FullName   string
	Department string
	Active     bool
}
