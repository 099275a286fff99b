package scanner

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robgonnella/portx/internal/exception"
	"github.com/robgonnella/portx/internal/target"
)

// Request represents a caller constructed scan of one host
type Request struct {
	Host        string        `validate:"host"`
	Ports       []int         `validate:"required,min=1,unique,dive,min=1,max=65535"`
	Concurrency int           `validate:"gt=0"`
	Timeout     time.Duration `validate:"gt=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// error is only returned for empty tags or nil functions
		_ = validate.RegisterValidation("host", func(fl validator.FieldLevel) bool {
			return target.IsValidHost(fl.Field().String())
		})
	})

	return validate
}

// Validate returns an error wrapping ErrInvalidRequest describing every
// invalid field of the request
func (r Request) Validate() error {
	err := requestValidator().Struct(r)

	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors

	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", exception.ErrInvalidRequest, err.Error())
	}

	reasons := []string{}

	for _, fe := range fieldErrs {
		reasons = append(reasons, describeFieldError(fe))
	}

	return fmt.Errorf("%w: %s", exception.ErrInvalidRequest, strings.Join(reasons, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Host":
		return fmt.Sprintf("invalid host %q", fe.Value())
	case "Ports":
		switch fe.Tag() {
		case "required", "min":
			return "no ports to scan"
		case "unique":
			return "duplicate ports"
		}
	case "Concurrency":
		return "concurrency must be greater than 0"
	case "Timeout":
		return "timeout must be greater than 0"
	}

	// dive errors report the element namespace e.g. Request.Ports[3]
	if strings.Contains(fe.Namespace(), "Ports[") {
		return fmt.Sprintf("port %v out of range 1-65535", fe.Value())
	}

	return fe.Error()
}
