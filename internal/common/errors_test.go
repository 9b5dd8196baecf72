package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed auth", E(KindAuth, "session.SignIn", ErrInvalidCredentials), KindAuth},
		{"typed transfer wrapped", fmt.Errorf("upload: %w", E(KindTransfer, "avatar.Upload", errors.New("boom"))), KindTransfer},
		{"bare not found", ErrNotFound, KindNotFound},
		{"unknown defaults to store", errors.New("socket closed"), KindStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := E(KindAuth, "session.SignIn", ErrInvalidCredentials)
	require.True(t, errors.Is(err, ErrInvalidCredentials))
	require.Contains(t, err.Error(), "session.SignIn")
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(ErrNotFound))
	require.True(t, IsNotFound(E(KindNotFound, "profile.Load", ErrNotFound)))
	require.False(t, IsNotFound(E(KindStore, "profile.Load", errors.New("db down"))))
	require.False(t, IsNotFound(nil))
}
