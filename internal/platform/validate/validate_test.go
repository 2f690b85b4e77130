// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/validate"
)

/*
TestValidator_Rules runs every rule against a passing and a failing value.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name   string
		apply  func(v *validate.Validator)
		failed bool
	}{
		{"required_ok", func(v *validate.Validator) { v.Required("name", "Ала-Тоо") }, false},
		{"required_blank", func(v *validate.Validator) { v.Required("name", "   ") }, true},
		{"max_len_runes", func(v *validate.Validator) { v.MaxLen("name", "Өмүр", 4) }, false},
		{"max_len_over", func(v *validate.Validator) { v.MaxLen("name", "Өмүрбек", 4) }, true},
		{"min_len_short", func(v *validate.Validator) { v.MinLen("password", "abc", 8) }, true},
		{"email_ok", func(v *validate.Validator) { v.Email("email", "aigerim@toikana.kg") }, false},
		{"email_missing_domain", func(v *validate.Validator) { v.Email("email", "test@") }, true},
		{"email_display_name", func(v *validate.Validator) { v.Email("email", "Aigerim <a@toikana.kg>") }, true},
		{"url_https", func(v *validate.Validator) { v.URL("image_url", "https://cdn.toikana.kg/listing-images/a.jpg") }, false},
		{"url_relative", func(v *validate.Validator) { v.URL("image_url", "/a.png") }, true},
		{"url_ftp", func(v *validate.Validator) { v.URL("image_url", "ftp://example.com/a.png") }, true},
		{"phone_international", func(v *validate.Validator) { v.Phone("phone", "+996 555 123-456") }, false},
		{"phone_local", func(v *validate.Validator) { v.Phone("phone", "0555123456") }, false},
		{"phone_words", func(v *validate.Validator) { v.Phone("phone", "call me") }, true},
		{"uuid_ok", func(v *validate.Validator) { v.UUID("id", "0190f5a0-7a4e-7cc2-9b1e-3f1c2d4e5a6b") }, false},
		{"uuid_bad", func(v *validate.Validator) { v.UUID("id", "42") }, true},
		{"one_of_ok", func(v *validate.Validator) { v.OneOf("role", "partner", "user", "partner", "admin") }, false},
		{"one_of_bad", func(v *validate.Validator) { v.OneOf("role", "root", "user", "partner", "admin") }, true},
		{"custom", func(v *validate.Validator) { v.Custom("capacity", true, i18n.KeyValidateNonNegative) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, tt.failed, v.HasErrors())
			if !tt.failed {
				assert.NoError(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Accumulates keeps every failure in call order.
*/
func TestValidator_Accumulates(t *testing.T) {
	err := validate.In(i18n.Russian).
		Required("display_name", "").
		MinLen("password", "a", 8).
		Email("email", "not-an-email").
		Err()

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	require.Len(t, appErr.Details, 3)
	assert.Equal(t, []string{"display_name", "password", "email"},
		[]string{appErr.Details[0].Field, appErr.Details[1].Field, appErr.Details[2].Field})
}

/*
TestValidator_Language renders messages in the validator's language.
*/
func TestValidator_Language(t *testing.T) {
	tests := []struct {
		lang i18n.Language
		want string
	}{
		{i18n.Russian, "Не более 3 символов"},
		{i18n.Kyrgyz, "3 белгиден ашпашы керек"},
		{"", "3 белгиден ашпашы керек"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			appErr := apperr.As(validate.In(tt.lang).MaxLen("price", "12345", 3).Err())
			require.NotNil(t, appErr)
			assert.Equal(t, tt.want, appErr.Details[0].Message)
		})
	}

	custom := apperr.As(validate.In(i18n.Russian).Custom("kind", true, "Unknown kind").Err())
	require.NotNil(t, custom)
	assert.Equal(t, "Unknown kind", custom.Details[0].Message)
}
