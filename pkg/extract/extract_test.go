package extract

import (
	"errors"
	"testing"
)

func TestIsSupportedType(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"text/plain", true},
		{"text/plain; charset=utf-8", true},
		{"text/markdown", true},
		{"image/png", false},
		{"application/zip", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsSupportedType(c.contentType); got != c.want {
			t.Errorf("IsSupportedType(%q) = %v, want %v", c.contentType, got, c.want)
		}
	}
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText([]byte("  hello world \n"), "text/plain")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "hello world" {
		t.Errorf("ExtractText = %q, want %q", got, "hello world")
	}
}

func TestExtractTextMarkdownWithCharset(t *testing.T) {
	got, err := ExtractText([]byte("# Title"), "text/markdown; charset=utf-8")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "# Title" {
		t.Errorf("ExtractText = %q, want %q", got, "# Title")
	}
}

func TestExtractTextEmpty(t *testing.T) {
	_, err := ExtractText([]byte("   \n\t "), "text/plain")
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText([]byte("GIF89a"), "image/gif")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestExtractTextBrokenPDF(t *testing.T) {
	if _, err := ExtractText([]byte("not really a pdf"), "application/pdf"); err == nil {
		t.Fatal("ExtractText accepted invalid PDF data")
	}
}
