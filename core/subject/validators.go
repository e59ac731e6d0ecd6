package subject

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
)

var (
	codeTag   = "subjcode"
	codeText  = "code must be 2 to 10 letters or digits, e.g. MATH101"
	codeRegex = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(codeTag, codeValidation)
	core.RegisterCustomTranslation(validate, translator, codeTag, codeText)
}

func codeValidation(fl validator.FieldLevel) bool {
	return codeRegex.MatchString(fl.Field().String())
}
