package service

import (
	"strings"
	"testing"
)

func TestExtractTextPlainFile(t *testing.T) {
	text, err := ExtractText("faq.txt", "text/plain", []byte("We open at 9am."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "We open at 9am." {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextInvalidPDF(t *testing.T) {
	_, err := ExtractText("broken.pdf", "application/pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
	if !strings.Contains(err.Error(), "pdf") {
		t.Errorf("error = %v", err)
	}
}

func TestIsPDF(t *testing.T) {
	cases := []struct {
		fileName    string
		contentType string
		want        bool
	}{
		{"pricelist.pdf", "", true},
		{"PRICELIST.PDF", "text/plain", true},
		{"pricelist", "application/pdf", true},
		{"pricelist.txt", "text/plain", false},
	}
	for _, tc := range cases {
		if got := isPDF(tc.fileName, tc.contentType); got != tc.want {
			t.Errorf("isPDF(%q, %q) = %v, want %v", tc.fileName, tc.contentType, got, tc.want)
		}
	}
}
