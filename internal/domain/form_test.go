package domain_test

import (
	"testing"

	"github.com/nfrund/regform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormState_Set(t *testing.T) {
	t.Run("updates only the named field", func(t *testing.T) {
		var s domain.FormState
		require.NoError(t, s.Set(domain.FieldEmail, "a@b.com"))

		assert.Equal(t, domain.FormState{Email: "a@b.com"}, s)
	})

	t.Run("last write wins", func(t *testing.T) {
		var s domain.FormState
		require.NoError(t, s.Set(domain.FieldUsername, "al"))
		require.NoError(t, s.Set(domain.FieldPassword, "pw"))
		require.NoError(t, s.Set(domain.FieldUsername, "alice"))

		assert.Equal(t, "alice", s.Get(domain.FieldUsername))
		assert.Equal(t, "pw", s.Get(domain.FieldPassword))
		assert.Empty(t, s.Get(domain.FieldEmail))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		s := domain.FormState{Username: "alice"}
		err := s.Set(domain.Field("role"), "admin")

		assert.ErrorIs(t, err, domain.ErrUnknownField)
		assert.Equal(t, domain.FormState{Username: "alice"}, s)
	})
}

func TestField_Valid(t *testing.T) {
	for _, f := range domain.Fields {
		assert.True(t, f.Valid(), f)
	}
	assert.False(t, domain.Field("").Valid())
	assert.False(t, domain.Field("Username").Valid())
}
