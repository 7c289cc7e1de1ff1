package handler

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// validator 에는 한국어 기본 번역이 없어서 쓰는 태그만 직접 등록한다
var koreanMessages = map[string]string{
	"required": "{0}은(는) 필수 항목입니다",
	"min":      "{0}은(는) {1} 이상이어야 합니다",
	"max":      "{0}은(는) {1} 이하여야 합니다",
	"oneof":    "{0}은(는) [{1}] 중 하나여야 합니다",
	"email":    "{0}은(는) 올바른 이메일 주소여야 합니다",
	"datetime": "{0}은(는) {1} 형식이어야 합니다",
}

func registerKoreanTranslations(validate *validator.Validate, trans ut.Translator) error {
	for tag, msg := range koreanMessages {
		register := func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}
		translate := func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return t
		}
		if err := validate.RegisterTranslation(tag, trans, register, translate); err != nil {
			return err
		}
	}
	return nil
}

// 오류 메시지에는 구조체 필드명 대신 JSON 키를 보여준다
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
