package utils

import (
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

func Validator() *validator.Validate {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ParseAndValidateRequestBody decodes the JSON body into dst and runs struct validation.
func ParseAndValidateRequestBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := Validator().Struct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}
