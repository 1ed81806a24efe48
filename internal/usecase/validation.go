package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/GoArmGo/foodgram/internal/domain"
	"github.com/go-playground/validator/v10"
)

// validate — общий экземпляр валидатора, кэширует разобранные теги структур.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках показываем имена полей так, как их видит клиент в JSON.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет теги validate и превращает первую ошибку в domain.ErrValidation.
func validateStruct(s interface{}) error {
	return toValidationError(validate.Struct(s), "")
}

// toValidationError переводит ошибку validator в доменную. Если field не пуст,
// он заменяет имя поля из validator (нужно для элементов вложенных списков).
func toValidationError(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("ошибка валидации: %w", err)
	}
	fe := verrs[0]
	if field == "" {
		field = fe.Field()
	}
	return domain.NewValidationError(field, validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "email":
		return "Некорректный адрес электронной почты"
	case "min":
		if isString {
			return fmt.Sprintf("Длина должна быть не меньше %s символов", fe.Param())
		}
		return fmt.Sprintf("Значение %s должно быть не меньше %s", fe.Field(), fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Длина должна быть не больше %s символов", fe.Param())
		}
		return fmt.Sprintf("Значение %s должно быть не больше %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Некорректное значение поля %s", fe.Field())
}
