package attendance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPolicyViolation              = errors.New("attendance type is not allowed by the department policy")
	ErrOutsideOfficeRadius          = errors.New("location could not be verified inside an office radius")
	ErrTooEarlyForOvertime          = errors.New("overtime cannot be requested before the scheduled checkout time")
	ErrEarlyCheckoutReasonRequired  = errors.New("checking out before the scheduled time requires a reason")
	ErrOvertimeVerificationRequired = errors.New("overtime checkout requires verification fields")
	ErrInvalidStateTransition       = errors.New("operation is not valid in the current attendance state")
	ErrRecordNotFound               = errors.New("attendance record not found")
)

// StateTransitionError reports an operation attempted from a state that
// does not permit it.
type StateTransitionError struct {
	Current   State
	Attempted string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while attendance is %s", e.Attempted, e.Current)
}

func (e *StateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// OvertimeVerificationError lists the verification fields still missing
// at an overtime checkout.
type OvertimeVerificationError struct {
	Missing []string
}

func (e *OvertimeVerificationError) Error() string {
	return fmt.Sprintf("overtime checkout requires: %s", strings.Join(e.Missing, ", "))
}

func (e *OvertimeVerificationError) Is(target error) bool {
	return target == ErrOvertimeVerificationRequired
}
