package http

import (
	"errors"
	"strings"
	"testing"
)

func TestNotBlankValidation(t *testing.T) {
	type P struct {
		Name string `json:"full_name" validate:"notblank"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Name: "Jane"}); err != nil {
		t.Fatalf("expected valid, got err: %v", err)
	}
	for _, s := range []string{"", "   ", "\t\n"} {
		err := cv.Validate(P{Name: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "full_name", "is required") {
			t.Fatalf("expected json field name and required message for %q, got: %+v", s, fe)
		}
	}
}

func TestPhoneValidation(t *testing.T) {
	type P struct {
		Phone string `json:"phone" validate:"omitempty,phone"`
	}
	cv := NewValidator()

	for _, s := range []string{"", "+1 (555) 010-0000", "021 555 0100", "+628123456789"} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected phone OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"call me", "12", "+1-555-CALL-NOW"} {
		err := cv.Validate(P{Phone: s})
		if err == nil {
			t.Fatalf("expected phone error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "phone", "phone number") {
			t.Fatalf("expected phone message for %q, got %+v", s, fe)
		}
	}
}

func TestMessageMapping(t *testing.T) {
	type P struct {
		Email   string `json:"email" validate:"required,email"`
		Website string `json:"website" validate:"omitempty,url"`
		UserID  string `json:"user_id" validate:"omitempty,uuid"`
		Note    string `json:"note" validate:"max=5"`
		Min     int    `json:"min" validate:"gte=10"`
		Max     int    `json:"max" validate:"lte=5"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Email: "nope", Website: "not a url", UserID: "x", Note: strings.Repeat("n", 6), Min: 9, Max: 6})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	for field, msg := range map[string]string{
		"email":   "valid email",
		"website": "valid URL",
		"user_id": "UUID",
		"note":    "at most 5 characters",
		"min":     "greater than or equal to 10",
		"max":     "less than or equal to 5",
	} {
		if !containsFieldMsg(fe, field, msg) {
			t.Fatalf("missing %q message for %s: %+v", msg, field, fe)
		}
	}

	if fe := ToFieldErrors(cv.Validate(P{Website: "https://x.test", Min: 10})); !containsFieldMsg(fe, "email", "is required") {
		t.Fatalf("missing required message: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
