package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soportes/internal/shared/errors"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Técnico", "tecnico"},
		{"  EN   PROCESO ", "en proceso"},
		{"Mantenimiento", "mantenimiento"},
		{"Atención", "atencion"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	got := StringPtr(" Soporte ")
	require.NotNil(t, got)
	assert.Equal(t, "Soporte", *got)
}

type sample struct {
	Role   string `gorm:"column:role;not null" validate:"required,oneof=admin user"`
	Number int    `gorm:"column:numero_ticket" validate:"gt=0"`
	Label  string `json:"label" validate:"max=3"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sample{Role: "admin", Number: 1, Label: "ok"}))

	err := ValidateStruct(sample{Role: "root", Number: 0, Label: "toolong"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "role must be one of [admin user]")
	assert.Contains(t, appErr.Details, "numero_ticket must be greater than 0")
	assert.Contains(t, appErr.Details, "label must be at most 3 characters long")
}

func TestValidateID(t *testing.T) {
	assert.Error(t, ValidateID(" "))
	assert.NoError(t, ValidateID("abc"))
}
