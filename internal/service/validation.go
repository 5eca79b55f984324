package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("article_type", func(fl validator.FieldLevel) bool {
		return domain.ArticleType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("article_status", func(fl validator.FieldLevel) bool {
		return domain.ArticleStatus(fl.Field().String()).IsValid()
	})
	return v
}

// validateStruct converts validator failures into a Validation error whose
// details map each offending field to the rule it broke.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.NewValidation("%s", err.Error())
	}
	details := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		names = append(names, fe.Field())
	}
	return common.NewValidation("invalid fields: %s", strings.Join(names, ", ")).WithDetails(details)
}

func requireActor(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return common.NewValidation("actor id is required")
	}
	return nil
}
