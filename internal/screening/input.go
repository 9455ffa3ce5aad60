package screening

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when the résumé or job description is missing.
// The pipeline does not run in that case. Candidate metadata is free text and
// is never rejected.
var ErrInvalidInput = errors.New("invalid input")

// CandidateInfo is the recruiter-supplied metadata for one candidate.
type CandidateInfo struct {
	Name        string `json:"name" mapstructure:"name"`
	Mobile      string `json:"mobile" mapstructure:"mobile"`
	LinkedIn    string `json:"linkedin" mapstructure:"linkedin"`
	Location    string `json:"location" mapstructure:"location"`
	CurrentCTC  string `json:"currentCTC" mapstructure:"current-ctc"`
	ExpectedCTC string `json:"expectedCTC" mapstructure:"expected-ctc"`
	Relocation  string `json:"relocation" mapstructure:"relocation"`
}

// RawInput is everything a single analysis reads.
type RawInput struct {
	Resume         string        `json:"resume" validate:"notblank"`
	JobDescription string        `json:"jobDescription" validate:"notblank"`
	Candidate      CandidateInfo `json:"candidate"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// RegisterValidation only fails on an empty tag or a baked-in name.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate rejects inputs the pipeline cannot analyze.
func (in RawInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx != -1 {
		field = field[idx+1:]
	}

	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
