package core

import (
	"testing"
)

func TestKeyFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same key",
			content: "ada lovelace mathematician",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "A much longer piece of content that should still hash consistently across calls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1 := KeyFromContent(tt.content)
			k2 := KeyFromContent(tt.content)

			if k1 != k2 {
				t.Errorf("KeyFromContent() produced different keys for same content: %d vs %d", k1, k2)
			}
		})
	}
}

func TestKeyFromContent_Different(t *testing.T) {
	k1 := KeyFromContent("content1")
	k2 := KeyFromContent("content2")

	if k1 == k2 {
		t.Errorf("KeyFromContent() produced same key for different content")
	}
}

func TestTitleKey_CaseAndSpaceInsensitive(t *testing.T) {
	if TitleKey("  Ada Lovelace ") != TitleKey("ada lovelace") {
		t.Errorf("TitleKey() should collapse case and surrounding whitespace")
	}
	if TitleKey("ada lovelace") == TitleKey("charles babbage") {
		t.Errorf("TitleKey() produced same key for different titles")
	}
}

func TestOrchestrateRequest_Query(t *testing.T) {
	tests := []struct {
		name string
		req  OrchestrateRequest
		want string
	}{
		{
			name: "name and keywords",
			req:  OrchestrateRequest{Name: "Ada Lovelace", Keywords: []string{"mathematician", "london"}},
			want: "Ada Lovelace mathematician london",
		},
		{
			name: "keywords only",
			req:  OrchestrateRequest{Keywords: []string{"mathematician"}},
			want: "mathematician",
		},
		{
			name: "blank keywords skipped",
			req:  OrchestrateRequest{Name: " Ada ", Keywords: []string{"", "math"}},
			want: "Ada math",
		},
		{
			name: "empty",
			req:  OrchestrateRequest{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Query(); got != tt.want {
				t.Errorf("Query() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceString(t *testing.T) {
	if SourcePrimary.String() != "primary" || SourcePDF.String() != "pdf" {
		t.Errorf("unexpected source names: %s, %s", SourcePrimary, SourcePDF)
	}
	if Source(99).String() != "unknown" {
		t.Errorf("out-of-range source should stringify to unknown")
	}
}
