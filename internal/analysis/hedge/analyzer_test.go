package hedge

import (
	"testing"

	"github.com/zhouzirui/misinfo-check/backend/internal/model/verdict"
)

func TestAnalyzeHedgePhrases(t *testing.T) {
	cases := []struct {
		name string
		text string
		want verdict.Status
	}{
		{"definitive answer", "Yes, the sky is blue due to Rayleigh scattering.", verdict.Verified},
		{"not enough information", "I do not have enough information to answer that.", verdict.Neutral},
		{"cannot verify mid sentence", "Sadly, I cannot verify this information right now.", verdict.Neutral},
		{"both phrases", "I cannot verify this information. I do not have enough information.", verdict.Neutral},
		{"case differs", "i cannot verify this information", verdict.Verified},
		{"partial phrase", "I cannot verify this", verdict.Verified},
		{"empty", "", verdict.Verified},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Analyze(tc.text).Status; got != tc.want {
				t.Fatalf("Analyze(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestAnalyzeReportsMatchedPhrase(t *testing.T) {
	decision := Analyze("Honestly, I do not have enough information.")
	if decision.Phrase != "I do not have enough information" {
		t.Fatalf("unexpected phrase %q", decision.Phrase)
	}
	if Analyze("Paris is the capital of France.").Phrase != "" {
		t.Fatal("expected no phrase for verified text")
	}
}
