package student

import (
	"fmt"
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
)

var (
	phoneTag   = "phone"
	phoneText  = "invalid phone number"
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	core.RegisterCustomTranslation(validate, translator, phoneTag, phoneText)
}

// phoneValidation accepts digits with an optional leading "+" and common separators.
func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// ValidateRoster validates every row of an import, reporting the first invalid row's fields
// as `rows[i].field`.
func ValidateRoster(validate *validator.Validate, translator ut.Translator, class string, rows []NewStudent) error {
	if len(rows) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "the roster has no student rows"})
	}
	for i := range rows {
		if class != "" {
			rows[i].Class = class
		}
		err := rows[i].Validate(validate)
		if err == nil {
			continue
		}
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, vErr := range vErrs {
			flds = append(flds, core.FieldError{
				Field: fmt.Sprintf("rows[%d].%s", i, vErr.Field()),
				Error: vErr.Translate(translator),
			})
		}
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
