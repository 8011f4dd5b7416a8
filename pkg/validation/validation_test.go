package validation

import (
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"full_name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=momo airtel"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Email: "nope", Kind: "cash"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"full_name": "is required",
		"email":     "must be a valid email",
		"kind":      "must be one of momo airtel",
	}, typed.Details())
}

func TestStructExceptSkipsFields(t *testing.T) {
	t.Parallel()

	require.NoError(t, StructExcept(sample{}, "Name"))
	require.NoError(t, Struct(sample{Name: "Awa", Email: "awa@example.com", Kind: "momo"}))
}

func TestFormatWrapsUnknownErrors(t *testing.T) {
	t.Parallel()

	typed := Format(errors.New("boom"))
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.EqualError(t, typed.Unwrap(), "boom")
}
