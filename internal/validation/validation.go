/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


// Package validation validates the fields provided by users with struct tags.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	slugRegex    = regexp.MustCompile(`^[a-zA-Z0-9\-._~]+$`)
	hashtagRegex = regexp.MustCompile(`^#?[\p{L}\p{N}_]{1,50}$`)

	// RE2 has no lookahead, so a password is matched against every class.
	passwordRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z0-9\{\}\[\]\/?.,;:|\)*~!^\-_+<>@\#$%&\\\=\(\'\"\x60]+$`),
		regexp.MustCompile(`[a-zA-Z]`),
		regexp.MustCompile(`[0-9]`),
		regexp.MustCompile(`[\{\}\[\]\/?.,;:|\)*~!^\-_+<>@\#$%&\\\=\(\'\"\x60]`),
	}
)

// rules are the tags registered in addition to the built-in ones.
var rules = []struct {
	tag     string
	message string
	match   func(string) bool
}{
	{
		tag:     "case_sensitive_slug",
		message: "{0} must only contain letters, numbers, hyphen, period, underscore, and tilde",
		match:   slugRegex.MatchString,
	},
	{
		tag:     "alpha_num_special",
		message: "{0} must include letters, numbers, and special characters",
		match: func(s string) bool {
			for _, r := range passwordRegexes {
				if !r.MatchString(s) {
					return false
				}
			}
			return true
		},
	},
	{
		tag:     "hashtag",
		message: "{0} must be a word of letters, numbers or underscores, optionally prefixed by #",
		match:   hashtagRegex.MatchString,
	},
}

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	locale := en.New()
	trans, _ = ut.New(locale, locale).GetTranslator(locale.Locale())
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("register default translations: %v", err))
	}

	for _, r := range rules {
		match := r.match
		if err := Register(r.tag, r.message, func(fl FieldLevel) bool {
			return match(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
}

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

// Violation describes a value that failed a tag.
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the error message.
func (v Violation) Error() string {
	return v.Err.Error()
}

// StructError holds every violation of a struct.
type StructError struct {
	Violations []Violation
}

// Error returns the descriptions of all violations, one per line.
func (s *StructError) Error() string {
	descriptions := make([]string, 0, len(s.Violations))
	for _, v := range s.Violations {
		descriptions = append(descriptions, v.Description)
	}
	return strings.Join(descriptions, "\n")
}

// Register adds a tag with its message. "{0}" in the message is replaced
// with the name of the field.
func Register(tag, message string, fn validator.Func) error {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation %s: %w", tag, err)
	}

	if err := validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	); err != nil {
		return fmt.Errorf("register translation %s: %w", tag, err)
	}
	return nil
}

// ValidateValue validates the value with the tag and returns the first
// Violation.
func ValidateValue(v any, tag string) error {
	violations := violationsOf(validate.Var(v, tag))
	if len(violations) == 0 {
		return nil
	}
	return violations[0]
}

// ValidateStruct validates the struct with its validate tags and returns a
// *StructError.
func ValidateStruct(s any) error {
	violations := violationsOf(validate.Struct(s))
	if len(violations) == 0 {
		return nil
	}
	return &StructError{Violations: violations}
}

func violationsOf(err error) []Violation {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []Violation{{Err: err, Description: err.Error()}}
	}

	violations := make([]Violation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, Violation{
			Tag:         e.Tag(),
			Field:       e.StructField(),
			Err:         e,
			Description: e.Translate(trans),
		})
	}
	return violations
}
