package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskmanager/domain/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "task_status", func(fl validator.FieldLevel) bool {
		return models.TaskStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "task_priority", func(fl validator.FieldLevel) bool {
		return models.TaskPriority(fl.Field().String()).IsValid()
	})
	mustRegister(v, "task_status_filter", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "all" || models.TaskStatus(value).IsValid()
	})
	mustRegister(v, "task_priority_filter", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "all" || models.TaskPriority(value).IsValid()
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// GetValidationErrors groups validation failures by field. Messages come from the
// request's ValidationMessages() when it has one, keyed "field.rule".
func GetValidationErrors(err error, req any) map[string][]string {
	details := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["request"] = []string{"La solicitud no es válida."}
		return details
	}

	var custom map[string]string
	if provider, ok := req.(interface{ ValidationMessages() map[string]string }); ok {
		custom = provider.ValidationMessages()
	}

	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := custom[field+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		details[field] = append(details[field], msg)
	}

	return details
}

func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", field)
	case "max":
		return fmt.Sprintf("El campo %s no puede superar %s caracteres.", field, fe.Param())
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres.", field, fe.Param())
	case "email":
		return fmt.Sprintf("El campo %s debe ser un correo electrónico válido.", field)
	case "uuid":
		return fmt.Sprintf("El campo %s debe ser un identificador válido.", field)
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s.", field, fe.Param())
	default:
		return fmt.Sprintf("El campo %s no es válido.", field)
	}
}
