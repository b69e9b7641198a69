package service

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var academicYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NewValidator returns the request validator shared by every service.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = validate.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return validAcademicYear(fl.Field().String())
	})
	return validate
}

// validAcademicYear accepts "2022-23" where the suffix is the following year.
func validAcademicYear(value string) bool {
	if !academicYearPattern.MatchString(value) {
		return false
	}
	start, _ := strconv.Atoi(value[:4])
	end, _ := strconv.Atoi(value[5:])
	return (start+1)%100 == end
}

// academicYearForLabel shifts a base academic year by the year label, so
// base "2022-23" with label "2" yields "2023-24".
func academicYearForLabel(base, label string) (string, bool) {
	if !validAcademicYear(base) {
		return "", false
	}
	offset, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil || offset < 1 {
		return "", false
	}
	start, _ := strconv.Atoi(base[:4])
	start += offset - 1
	return strconv.Itoa(start) + "-" + twoDigits((start+1)%100), true
}

func twoDigits(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
