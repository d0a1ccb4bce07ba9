package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"shorttext"`
	Password string `json:"password" validate:"secret"`
	Code     string `json:"code" validate:"omitempty,len=6,numeric"`
}

func TestStruct_OK(t *testing.T) {
	require.NoError(t, Struct(New(), sample{Name: "n", Password: "p", Code: "123456"}))
}

func TestStruct_UsesJSONNamesAndAliases(t *testing.T) {
	err := Struct(New(), sample{
		Name:     strings.Repeat("a", 256),
		Password: strings.Repeat("b", 1025),
		Code:     "12",
	})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at most 255 characters long", verr.Details["name"])
	assert.Equal(t, "must be at most 1024 characters long", verr.Details["password"])
	assert.Equal(t, "must be exactly 6 characters long", verr.Details["code"])
	assert.Contains(t, err.Error(), "validation failed: ")
}

func TestToDetails_Fallback(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
