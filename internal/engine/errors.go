package engine

import "fmt"

// ProtocolError reports a phase or action sequencing violation by the
// caller. Recoverable: the caller must resubmit a valid decision.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Reason)
}

func protocolErrf(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports a submitted decision inconsistent with the current
// state. The operation is aborted with no state change.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func validationErrf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RuleViolationError reports an operation the game rules forbid, such as
// stacking a second multiply modifier. Nothing is applied.
type RuleViolationError struct {
	Reason string
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("rule violation: %s", e.Reason)
}

func ruleErrf(format string, args ...any) error {
	return &RuleViolationError{Reason: fmt.Sprintf(format, args...)}
}

// EmptyArmyError reports an action attempted with zero eligible units.
type EmptyArmyError struct {
	Player string
	Army   string
}

func (e *EmptyArmyError) Error() string {
	return fmt.Sprintf("army %s/%s has no eligible units", e.Player, e.Army)
}

// InvalidRollError reports a roll tally inconsistent with the rolling
// units' actual faces. The action is retried, never partially applied.
type InvalidRollError struct {
	Reason string
}

func (e *InvalidRollError) Error() string {
	return fmt.Sprintf("invalid roll: %s", e.Reason)
}

func invalidRollErrf(format string, args ...any) error {
	return &InvalidRollError{Reason: fmt.Sprintf(format, args...)}
}
