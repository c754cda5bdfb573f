package policy

import "errors"

// Policy domain errors
var (
	// ErrPolicyNotConfigured: no policy exists for the department.
	ErrPolicyNotConfigured = errors.New("no policy configured for this department")

	// ErrPolicyRequired: an operation needed a resolved policy and none was
	// supplied. The engine never assumes a default work day.
	ErrPolicyRequired = errors.New("department policy is required")
)
