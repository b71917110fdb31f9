package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopdb-api/pkg/validator"
)

type sourceForm struct {
	Name  string `validate:"required"`
	Phone string `validate:"digits_only,max=20"`
}

func TestValidateStruct_OK(t *testing.T) {
	assert.Empty(t, validator.ValidateStruct(sourceForm{Name: "ACME", Phone: "5551234"}))
	assert.Empty(t, validator.ValidateStruct(sourceForm{Name: "ACME"}), "phone is optional")
}

func TestValidateStruct_Failures(t *testing.T) {
	errs := validator.ValidateStruct(sourceForm{Phone: "555-1234"})
	require.Len(t, errs, 2)
	assert.Equal(t, "Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "digits_only", errs[1].Tag)
	assert.Equal(t, "Name failed required; Phone failed digits_only", validator.Message(errs))
}
