package inputval_test

import (
	"strings"
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
)

type profileInput struct {
	Name  string `validate:"required,max=100" label:"Name"`
	Email string `validate:"required,email" label:"Email"`
	Bio   string `validate:"max=500" label:"Bio"`
}

func TestValidate_Passes(t *testing.T) {
	result := inputval.Validate(profileInput{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	if result.HasErrors() {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if result.First() != "" {
		t.Errorf("First on passing result: got %q", result.First())
	}
}

func TestValidate_RequiredUsesLabel(t *testing.T) {
	result := inputval.Validate(profileInput{Email: "alice@example.com"})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for missing Name")
	}
	if result.First() != "Name is required." {
		t.Errorf("message: got %q", result.First())
	}
}

func TestValidate_Email(t *testing.T) {
	result := inputval.Validate(profileInput{Name: "Alice", Email: "not-an-email"})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for bad email")
	}
	if result.First() != "Email must be a valid email address." {
		t.Errorf("message: got %q", result.First())
	}
}

func TestValidate_Max(t *testing.T) {
	result := inputval.Validate(profileInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Bio:   strings.Repeat("x", 501),
	})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for long bio")
	}
	if result.First() != "Bio must be at most 500 characters." {
		t.Errorf("message: got %q", result.First())
	}
}

func TestValidate_Oneof(t *testing.T) {
	type roleInput struct {
		Role string `validate:"required,oneof=student researcher" label:"Role"`
	}
	result := inputval.Validate(roleInput{Role: "pirate"})
	if !result.HasErrors() {
		t.Fatal("expected a validation error for unknown role")
	}
	if result.First() != "Role must be one of: student, researcher." {
		t.Errorf("message: got %q", result.First())
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	result := inputval.Validate(profileInput{})
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors (Name, Email), got %v", result.Errors)
	}
}

func TestValidate_FieldNameWithoutLabel(t *testing.T) {
	type bare struct {
		Title string `validate:"required"`
	}
	result := inputval.Validate(bare{})
	if result.First() != "Title is required." {
		t.Errorf("message: got %q", result.First())
	}
}
