package models

import (
	"fmt"
	"time"

	dErrors "recruitbot/pkg/domain-errors"
)

// MaxAttempts bounds how many completed records one identity may have.
const MaxAttempts = 3

// Field names a value collected during the conversation.
type Field string

const (
	FieldBirthDate           Field = "birth_date"
	FieldLastName            Field = "last_name"
	FieldFirstName           Field = "first_name"
	FieldPatronymic          Field = "patronymic"
	FieldPhoneNumber         Field = "phone_number"
	FieldMilitarySpec        Field = "military_spec"
	FieldDentalSanation      Field = "dental_sanation"
	FieldMedicalCertificates Field = "medical_certificates"
	FieldForeignPassport     Field = "foreign_passport"
	FieldActiveContracts     Field = "active_contracts"
)

var (
	stringFields = []Field{
		FieldBirthDate, FieldFirstName, FieldLastName, FieldPatronymic,
		FieldPhoneNumber, FieldMilitarySpec,
	}
	boolFields = []Field{
		FieldDentalSanation, FieldMedicalCertificates, FieldForeignPassport, FieldActiveContracts,
	}
)

// Fields maps field names to validated answers. Text answers are strings,
// yes/no answers are bools.
type Fields map[Field]any

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Record is one completed registration. It is immutable once stored except for IsBanned.
type Record struct {
	UserID              int64     `json:"user_id"`
	BirthDate           string    `json:"birth_date"`
	LastName            string    `json:"last_name"`
	FirstName           string    `json:"first_name"`
	Patronymic          string    `json:"patronymic"`
	PhoneNumber         string    `json:"phone_number"`
	MilitarySpec        string    `json:"military_spec"`
	DentalSanation      bool      `json:"dental_sanation"`
	MedicalCertificates bool      `json:"medical_certificates"`
	ForeignPassport     bool      `json:"foreign_passport"`
	ActiveContracts     bool      `json:"active_contracts"`
	RegisteredAt        time.Time `json:"registered_at"`
	IsBanned            bool      `json:"is_banned"`
}

// NewRecord builds a Record from collected fields, rejecting payloads with a
// missing or non-string text field or a missing or non-bool flag.
func NewRecord(userID int64, fields Fields, registeredAt time.Time) (*Record, error) {
	if userID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid user_id")
	}
	for _, f := range stringFields {
		v, ok := fields[f].(string)
		if !ok || v == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("invalid %s", f))
		}
	}
	for _, f := range boolFields {
		if _, ok := fields[f].(bool); !ok {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("invalid %s", f))
		}
	}

	return &Record{
		UserID:              userID,
		BirthDate:           fields[FieldBirthDate].(string),
		LastName:            fields[FieldLastName].(string),
		FirstName:           fields[FieldFirstName].(string),
		Patronymic:          fields[FieldPatronymic].(string),
		PhoneNumber:         fields[FieldPhoneNumber].(string),
		MilitarySpec:        fields[FieldMilitarySpec].(string),
		DentalSanation:      fields[FieldDentalSanation].(bool),
		MedicalCertificates: fields[FieldMedicalCertificates].(bool),
		ForeignPassport:     fields[FieldForeignPassport].(bool),
		ActiveContracts:     fields[FieldActiveContracts].(bool),
		RegisteredAt:        registeredAt,
	}, nil
}

// Validate re-checks the invariants NewRecord enforces; stores call it before insert.
func (r *Record) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is required")
	}
	if r.UserID <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid user_id")
	}
	required := map[Field]string{
		FieldBirthDate:    r.BirthDate,
		FieldFirstName:    r.FirstName,
		FieldLastName:     r.LastName,
		FieldPatronymic:   r.Patronymic,
		FieldPhoneNumber:  r.PhoneNumber,
		FieldMilitarySpec: r.MilitarySpec,
	}
	for _, f := range stringFields {
		if required[f] == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("invalid %s", f))
		}
	}
	if r.RegisteredAt.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "registration time is required")
	}
	return nil
}

// RemainingAttempts returns how many more registrations an identity with
// completed records may finish.
func RemainingAttempts(completed int) int {
	return max(MaxAttempts-completed, 0)
}
