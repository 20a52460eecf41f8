package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

func TestTransition_Client(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want error
	}{
		{"cancel pending", StatusPending, StatusCancelled, nil},
		{"cancel accepted", StatusAccepted, StatusCancelled, ErrInvalidTransition},
		{"cancel completed", StatusCompleted, StatusCancelled, ErrInvalidTransition},
		{"cancel rejected", StatusRejected, StatusCancelled, ErrInvalidTransition},
		{"cancel cancelled", StatusCancelled, StatusCancelled, ErrInvalidTransition},
		{"accept pending", StatusPending, StatusAccepted, ErrForbidden},
		{"reject pending", StatusPending, StatusRejected, ErrForbidden},
		{"complete pending", StatusPending, StatusCompleted, ErrForbidden},
		{"set pending again", StatusPending, StatusPending, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(user.RoleClient, tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestTransition_Artisan(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want error
	}{
		{"accept pending", StatusPending, StatusAccepted, nil},
		{"reject pending", StatusPending, StatusRejected, nil},
		{"complete pending", StatusPending, StatusCompleted, nil},
		{"complete accepted", StatusAccepted, StatusCompleted, nil},
		{"reject accepted", StatusAccepted, StatusRejected, nil},
		{"cancel pending", StatusPending, StatusCancelled, ErrForbidden},
		{"reset to pending", StatusAccepted, StatusPending, ErrForbidden},
		{"accept cancelled", StatusCancelled, StatusAccepted, ErrInvalidTransition},
		{"complete completed", StatusCompleted, StatusCompleted, ErrInvalidTransition},
		{"accept rejected", StatusRejected, StatusAccepted, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(user.RoleArtisan, tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestTransition_Admin(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want error
	}{
		{"accept pending", StatusPending, StatusAccepted, nil},
		{"cancel pending", StatusPending, StatusCancelled, nil},
		{"reset accepted to pending", StatusAccepted, StatusPending, nil},
		{"complete accepted", StatusAccepted, StatusCompleted, nil},
		{"same terminal status", StatusCompleted, StatusCompleted, nil},
		{"reopen completed", StatusCompleted, StatusPending, ErrInvalidTransition},
		{"accept cancelled", StatusCancelled, StatusAccepted, ErrInvalidTransition},
		{"complete rejected", StatusRejected, StatusCompleted, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(user.RoleAdmin, tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

// No role may ever leave a terminal state for a different one.
func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	terminals := []Status{StatusRejected, StatusCompleted, StatusCancelled}
	targets := []Status{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled}
	roles := []user.Role{user.RoleClient, user.RoleArtisan, user.RoleAdmin}

	for _, from := range terminals {
		for _, to := range targets {
			if from == to {
				continue
			}
			for _, role := range roles {
				err := Transition(role, from, to)
				require.Errorf(t, err, "%s: %s -> %s must not be allowed", role, from, to)
			}
		}
	}
}

func TestTransition_UnknownRole(t *testing.T) {
	assert.ErrorIs(t, Transition(user.Role("ghost"), StatusPending, StatusAccepted), ErrForbidden)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
