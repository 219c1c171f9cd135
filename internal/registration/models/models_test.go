package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "recruitbot/pkg/domain-errors"
)

func completeFields() Fields {
	return Fields{
		FieldBirthDate:           "01.01.1990",
		FieldLastName:            "Иванов",
		FieldFirstName:           "Иван",
		FieldPatronymic:          "Иванович",
		FieldPhoneNumber:         "+79991234567",
		FieldMilitarySpec:        "нет",
		FieldDentalSanation:      true,
		FieldMedicalCertificates: false,
		FieldForeignPassport:     true,
		FieldActiveContracts:     false,
	}
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("complete fields build a record", func(t *testing.T) {
		rec, err := NewRecord(7, completeFields(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(7), rec.UserID)
		assert.Equal(t, "Иванов", rec.LastName)
		assert.True(t, rec.DentalSanation)
		assert.False(t, rec.ActiveContracts)
		assert.Equal(t, now, rec.RegisteredAt)
		assert.False(t, rec.IsBanned)
		assert.NoError(t, rec.Validate())
	})

	t.Run("non positive user id is rejected", func(t *testing.T) {
		_, err := NewRecord(0, completeFields(), now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("missing text field is rejected", func(t *testing.T) {
		fields := completeFields()
		delete(fields, FieldPhoneNumber)
		_, err := NewRecord(7, fields, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "phone_number")
	})

	t.Run("flag with wrong type is rejected", func(t *testing.T) {
		fields := completeFields()
		fields[FieldForeignPassport] = "Да"
		_, err := NewRecord(7, fields, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign_passport")
	})
}

func TestFieldsClone(t *testing.T) {
	orig := completeFields()
	clone := orig.Clone()
	clone[FieldLastName] = "Петров"
	assert.Equal(t, "Иванов", orig[FieldLastName])
}

func TestRemainingAttempts(t *testing.T) {
	assert.Equal(t, 3, RemainingAttempts(0))
	assert.Equal(t, 1, RemainingAttempts(2))
	assert.Equal(t, 0, RemainingAttempts(5))
}
