package normalize_test

import (
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
)

func TestEmail(t *testing.T) {
	if got := normalize.Email("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("Email: got %q", got)
	}
}

func TestHandle(t *testing.T) {
	if got := normalize.Handle(" Alice "); got != "alice" {
		t.Errorf("Handle: got %q", got)
	}
}

func TestName_PreservesCase(t *testing.T) {
	if got := normalize.Name("  Marie Curie "); got != "Marie Curie" {
		t.Errorf("Name: got %q", got)
	}
}

func TestEnum(t *testing.T) {
	if got := normalize.Enum(" OPEN "); got != "open" {
		t.Errorf("Enum: got %q", got)
	}
}

func TestQueryParam(t *testing.T) {
	if got := normalize.QueryParam("  drone mapping "); got != "drone mapping" {
		t.Errorf("QueryParam: got %q", got)
	}
}
