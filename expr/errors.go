package expr

import "errors"

var (
	ErrShape          = errors.New("shape mismatch")
	ErrOperand        = errors.New("unsupported operand")
	ErrDomainCount    = errors.New("domain count mismatch")
	ErrUnknownSpecial = errors.New("unknown special field")
	ErrPlanBuild      = errors.New("plan build failed")
	ErrPlanNil        = errors.New("plan builder returned nil plan")
)
