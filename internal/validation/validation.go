/*
 * Copyright 2026 The Coedit Authors. All rights reserved.
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

// Package validation validates user-provided input, such as wire
// payloads and configuration values, before it reaches the hub.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	defaultValidator = validator.New()

	// trans renders violation messages in the 'en' locale, the only one
	// the server ships.
	trans ut.Translator
)

func init() {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ = uni.GetTranslator(locale.Locale())

	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		panic(fmt.Errorf("register default translations: %w", err))
	}
}

// Violation is a failed validation of a single field or value.
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

// StructError collects the violations of one struct validation.
type StructError struct {
	Violations []Violation
}

// Error returns the violation descriptions, one per line.
func (s StructError) Error() string {
	descriptions := make([]string, 0, len(s.Violations))
	for _, v := range s.Violations {
		descriptions = append(descriptions, v.Description)
	}

	return strings.Join(descriptions, "\n")
}

// ValidateStruct validates the given struct with its `validate` tags.
func ValidateStruct(v interface{}) error {
	err := defaultValidator.Struct(v)
	if err == nil {
		return nil
	}

	structError := StructError{}
	for _, fieldError := range err.(validator.ValidationErrors) {
		structError.Violations = append(structError.Violations, Violation{
			Tag:         fieldError.Tag(),
			Field:       fieldError.Field(),
			Err:         fieldError,
			Description: fieldError.Translate(trans),
		})
	}

	return structError
}

// ValidateValue validates a single value with the given tag.
func ValidateValue(v interface{}, tag string) error {
	err := defaultValidator.Var(v, tag)
	if err == nil {
		return nil
	}

	fieldError := err.(validator.ValidationErrors)[0]
	return Violation{
		Tag:         fieldError.Tag(),
		Err:         fieldError,
		Description: fieldError.Translate(trans),
	}
}
