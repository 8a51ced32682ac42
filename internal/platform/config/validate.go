package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "chatclean/internal/platform/errors"
)

// validatorSvc holds a singleton validator and its english translator
type validatorSvc struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		// report env-style names when a struct carries `env:"..."` tags
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := strings.TrimSpace(f.Tag.Get("env")); name != "" && name != "-" {
				return name
			}
			return f.Name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &validatorSvc{v: v, trans: trans}
	})
	return vSvc
}

// Validate checks option structs tagged with `validate:"..."`.
// All violations are joined into one InvalidArgument error with translated messages
func Validate(opts any) error {
	svc := getValidator()
	err := svc.v.Struct(opts)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "config validation")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(svc.trans))
	}
	return perr.Newf(perr.ErrorCodeInvalidArgument, "invalid config: %s", strings.Join(msgs, "; "))
}
