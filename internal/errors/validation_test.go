package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestBuilderCollectsFields() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("state").
		Fieldf("view_radius", "must be positive, got %v", -1)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "state: is required")
	s.Assert().Contains(err.Error(), "view_radius: must be positive")
	s.Assert().NotNil(errors.GetMeta(err)["validation_errors"])
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	s.Assert().Nil(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestNumericValidators() {
	testCases := []struct {
		name      string
		validate  func(vb *errors.ValidationBuilder)
		shouldErr bool
	}{
		{"positive ok", func(vb *errors.ValidationBuilder) { errors.ValidatePositive("x", 1, vb) }, false},
		{"positive zero", func(vb *errors.ValidationBuilder) { errors.ValidatePositive("x", 0, vb) }, true},
		{"non-negative zero", func(vb *errors.ValidationBuilder) { errors.ValidateNonNegative("x", 0, vb) }, false},
		{"non-negative below", func(vb *errors.ValidationBuilder) { errors.ValidateNonNegative("x", -0.5, vb) }, true},
		{"probability ok", func(vb *errors.ValidationBuilder) { errors.ValidateProbability("p", 0.5, vb) }, false},
		{"probability high", func(vb *errors.ValidationBuilder) { errors.ValidateProbability("p", 1.5, vb) }, true},
		{"enum ok", func(vb *errors.ValidationBuilder) { errors.ValidateEnum("f", "json", []string{"json", "text"}, vb) }, false},
		{"enum bad", func(vb *errors.ValidationBuilder) { errors.ValidateEnum("f", "xml", []string{"json", "text"}, vb) }, true},
		{"required blank", func(vb *errors.ValidationBuilder) { errors.ValidateRequired("id", "  ", vb) }, true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			tc.validate(vb)
			if tc.shouldErr {
				s.Assert().Error(vb.Build())
			} else {
				s.Assert().NoError(vb.Build())
			}
		})
	}
}
