package utils

import (
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	cccdPattern  = regexp.MustCompile(`^(\d{9}|\d{12})$`)
	phonePattern = regexp.MustCompile(`^(?:\+?(\d{1,3}))?[\s-]?\(?(\d{2,3})\)?[\s-]?(\d{3})[\s-]?(\d{3,4})$`)
	namePattern  = regexp.MustCompile(`^[\p{L}\s]+$`)
)

// RegisterValidators adds the custom binding rules used by the request DTOs
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notfuture":  notFuture,
		"cccd":       matchPattern(cccdPattern),
		"phone":      matchPattern(phonePattern),
		"personname": matchPattern(namePattern),
		"minage":     minAge,
		"after":      after,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	switch t := fl.Field().Interface().(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// notFuture rejects dates after now
func notFuture(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return true
	}
	return !t.After(time.Now())
}

// minAge requires a birth date at least param years ago
func minAge(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return true
	}
	years, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return !t.After(time.Now().AddDate(-years, 0, 0))
}

// after requires the date to be later than the sibling field named by param.
// Passes when either date is missing.
func after(fl validator.FieldLevel) bool {
	end, ok := fieldTime(fl)
	if !ok {
		return true
	}
	sibling := reflect.Indirect(fl.Parent()).FieldByName(fl.Param())
	if !sibling.IsValid() {
		return false
	}
	var start time.Time
	switch v := sibling.Interface().(type) {
	case time.Time:
		start = v
	case *time.Time:
		if v == nil {
			return true
		}
		start = *v
	default:
		return false
	}
	return end.After(start)
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || re.MatchString(s)
	}
}
