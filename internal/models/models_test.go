package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDENTE", "EM_ANALISE", "APROVADO", "REJEITADO"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("pendente")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("CANCELADO")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseModalidade(t *testing.T) {
	for _, valid := range []string{"PRESENCIAL", "REMOTO", "HIBRIDO"} {
		m, err := ParseModalidade(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, Modalidade(valid), m)
	}

	_, err := ParseModalidade("remoto")
	assert.ErrorIs(t, err, ErrInvalidModalidade)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCompany.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("USER").Valid())
}
