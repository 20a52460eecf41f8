package order

import "github.com/hirafie/hirafie-backend/internal/domain/user"

// Transition validates a requested status change against the state machine.
//
//	client:  pending -> cancelled, nothing else. Requesting any other target
//	         is Forbidden; cancelling an accepted or completed order is
//	         InvalidTransition (the order is already committed).
//	artisan: -> accepted | rejected | completed from any non-terminal state.
//	         Any other target is Forbidden; touching a terminal order is
//	         InvalidTransition.
//	admin:   any target from any non-terminal state.
//
// Terminal states (rejected, completed, cancelled) admit no outgoing
// transitions for any actor. Setting the same status again on a terminal
// order is treated as a no-op for admins only.
func Transition(actor user.Role, from, to Status) error {
	switch actor {
	case user.RoleClient:
		if to != StatusCancelled {
			return ErrForbidden
		}
		if from == StatusAccepted || from == StatusCompleted {
			return ErrInvalidTransition
		}
		if from.Terminal() {
			return ErrInvalidTransition
		}
		return nil

	case user.RoleArtisan:
		switch to {
		case StatusAccepted, StatusRejected, StatusCompleted:
		default:
			return ErrForbidden
		}
		if from.Terminal() {
			return ErrInvalidTransition
		}
		return nil

	case user.RoleAdmin:
		if from.Terminal() && to != from {
			return ErrInvalidTransition
		}
		return nil

	default:
		return ErrForbidden
	}
}
