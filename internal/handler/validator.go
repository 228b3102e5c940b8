package handler

import (
    "errors"
    "reflect"
    "sort"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
// Install it with e.Validator = handler.NewRequestValidator().
type RequestValidator struct {
    v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
    v := validator.New(validator.WithRequiredStructEnabled())
    // report JSON names rather than Go field names
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        if name == "" {
            name = f.Tag.Get("query")
        }
        return name
    })
    return &RequestValidator{v: v}
}

// Validate returns a *booking.Error of kind InvalidInput listing every
// failing field.
func (rv *RequestValidator) Validate(i interface{}) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return err
    }
    fields := make(map[string]string, len(verrs))
    msgs := make([]string, 0, len(verrs))
    for _, fe := range verrs {
        msg := describe(fe)
        fields[fe.Field()] = msg
        msgs = append(msgs, fe.Field()+": "+msg)
    }
    sort.Strings(msgs)
    return &booking.Error{
        Kind:    booking.KindInvalidInput,
        Code:    booking.CodeInvalidRequest,
        Message: strings.Join(msgs, "; "),
        Fields:  fields,
    }
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "datetime":
        return "must be a date formatted as " + fe.Param()
    case "max":
        return "must be at most " + fe.Param() + " characters"
    case "gt":
        return "must be greater than " + fe.Param()
    case "oneof":
        return "must be one of " + fe.Param()
    }
    return "is invalid"
}

var _ echo.Validator = (*RequestValidator)(nil)
