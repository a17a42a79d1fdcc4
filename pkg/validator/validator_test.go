package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionRequest struct {
	VisitorID string `json:"visitor_id" validate:"omitempty,visitorid"`
	Interval  int    `json:"interval_ms" validate:"gte=0,lte=60000"`
}

type interactionRequest struct {
	Type string `json:"type" validate:"required,oneof=pointer_enter pointer_leave focus blur"`
}

type selectRequest struct {
	ProductID string `json:"product_id" validate:"required_without=Term,excluded_with=Term"`
	Term      string `json:"term"`
}

type toggleRequest struct {
	ProductID string `json:"product_id" validate:"notblank,max=8"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(sessionRequest{VisitorID: "visitor_01-a", Interval: 3000})
	assert.NoError(t, err)
}

func TestValidate_EmptyVisitorIDAllowed(t *testing.T) {
	err := Validate(sessionRequest{})
	assert.NoError(t, err)
}

func TestValidate_InvalidVisitorID(t *testing.T) {
	err := Validate(sessionRequest{VisitorID: "bad visitor!"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "visitor_id")
	assert.Contains(t, fields["visitor_id"], "letters, digits")
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(sessionRequest{Interval: 90000})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["interval_ms"], "60000")
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(interactionRequest{Type: "double_click"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["type"], "one of")
}

func TestValidate_Required(t *testing.T) {
	err := Validate(interactionRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["type"])
}

func TestValidate_NotBlank(t *testing.T) {
	err := Validate(toggleRequest{ProductID: "   "})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["product_id"])
}

func TestValidate_Max(t *testing.T) {
	err := Validate(toggleRequest{ProductID: "123456789"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["product_id"], "at most 8")
}

func TestValidate_SelectEitherProductOrTerm(t *testing.T) {
	assert.NoError(t, Validate(selectRequest{ProductID: "1"}))
	assert.NoError(t, Validate(selectRequest{Term: "linen"}))

	err := Validate(selectRequest{})
	require.Error(t, err)

	err = Validate(selectRequest{ProductID: "1", Term: "linen"})
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["product_id"], "must not be combined")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(interactionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'type'")
	assert.Contains(t, err.Error(), "is required")
}
