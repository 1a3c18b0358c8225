package uploads_test

import (
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/system/uploads"
)

func TestPolicy_Validate_AcceptsPDF(t *testing.T) {
	p := uploads.NewPolicy(0, nil, nil)

	if err := p.Validate("cv.pdf", 1<<20, "application/pdf"); err != nil {
		t.Errorf("expected pdf to pass, got: %v", err)
	}
}

func TestPolicy_Validate_SizeLimit(t *testing.T) {
	p := uploads.NewPolicy(1<<20, nil, nil)

	if err := p.Validate("cv.pdf", 2<<20, "application/pdf"); err == nil {
		t.Error("expected oversize upload to fail")
	}
}

func TestPolicy_Validate_Extension(t *testing.T) {
	p := uploads.NewPolicy(0, nil, nil)

	if err := p.Validate("run.exe", 1024, ""); err == nil {
		t.Error("expected .exe to be rejected")
	}
	if err := p.Validate("notes.DOCX", 1024, ""); err != nil {
		t.Errorf("extension check should be case-insensitive, got: %v", err)
	}
}

func TestPolicy_Validate_ContentType(t *testing.T) {
	p := uploads.NewPolicy(0, nil, nil)

	if err := p.Validate("cv.pdf", 1024, "application/x-msdownload"); err == nil {
		t.Error("expected disallowed content type to be rejected")
	}
	// Content-type parameters are stripped before matching.
	if err := p.Validate("cv.pdf", 1024, "application/pdf; charset=binary"); err != nil {
		t.Errorf("parameterized content type should pass, got: %v", err)
	}
	// A missing declared content type skips that check but not the
	// extension check.
	if err := p.Validate("cv.pdf", 1024, ""); err != nil {
		t.Errorf("empty content type should pass for allowed extension, got: %v", err)
	}
}

func TestPolicy_CustomLists(t *testing.T) {
	p := uploads.NewPolicy(0, []string{"text/csv"}, []string{".csv"})

	if err := p.Validate("data.csv", 1024, "text/csv"); err != nil {
		t.Errorf("expected csv to pass, got: %v", err)
	}
	if err := p.Validate("cv.pdf", 1024, "application/pdf"); err == nil {
		t.Error("expected pdf to be rejected under custom lists")
	}
}
