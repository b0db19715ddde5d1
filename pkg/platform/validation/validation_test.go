package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "expenseai/pkg/domain-errors"
)

type sample struct {
	IdentityKey string `json:"identity_key" validate:"required,max=5"`
	Decision    string `json:"government_decision" validate:"omitempty,oneof=ACCEPTED REJECTED"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(&sample{IdentityKey: "abc"}))

	cases := []struct {
		in   sample
		want string
	}{
		{sample{}, "identity_key is required"},
		{sample{IdentityKey: "toolong"}, "identity_key must be at most 5 characters"},
		{sample{IdentityKey: "ok", Decision: "MAYBE"}, "government_decision must be one of ACCEPTED, REJECTED"},
	}
	for _, tc := range cases {
		err := Struct(&tc.in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, tc.want, dErrors.MessageOf(err))
	}
}
