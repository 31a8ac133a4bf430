package bot

import (
	"strings"
	"testing"

	"github.com/shagtracker/shagbot/internal/wizard"
)

const testGoalID = "2b1f0a9c-8d4e-4f6a-9c3b-7e5d1a2f8b60"

func TestMetricToken_RoundTrip(t *testing.T) {
	token := MetricToken(testGoalID, "5.5")
	if len(token) > wizard.MaxTokenLen {
		t.Fatalf("token is %d bytes, want <= %d", len(token), wizard.MaxTokenLen)
	}

	goalID, valueText, ok := parseMetricToken(token)
	if !ok {
		t.Fatal("parseMetricToken rejected freshly built token")
	}
	if goalID != testGoalID {
		t.Errorf("goalID = %q, want %q", goalID, testGoalID)
	}
	if valueText != "5.5" {
		t.Errorf("valueText = %q, want %q", valueText, "5.5")
	}
}

func TestMetricToken_LongValueCutToFit(t *testing.T) {
	token := MetricToken(testGoalID, strings.Repeat("9", 100))
	if len(token) > wizard.MaxTokenLen {
		t.Errorf("token is %d bytes, want <= %d", len(token), wizard.MaxTokenLen)
	}
	_, _, ok := parseMetricToken(token)
	if !ok {
		t.Error("cut token no longer parses")
	}
}

func TestParseMetricToken_Malformed(t *testing.T) {
	cases := []string{"r", "r:", "r::5.5", "r:" + testGoalID, "r:" + testGoalID + ":"}
	for _, data := range cases {
		_, _, ok := parseMetricToken(data)
		if ok {
			t.Errorf("parseMetricToken(%q) = ok, want rejection", data)
		}
	}
}

func TestFinishToken_RoundTrip(t *testing.T) {
	for _, done := range []bool{true, false} {
		token := FinishToken(testGoalID, done)
		goalID, gotDone, ok := parseFinishToken(token)
		if !ok {
			t.Fatalf("parseFinishToken rejected %q", token)
		}
		if goalID != testGoalID || gotDone != done {
			t.Errorf("parseFinishToken(%q) = (%q, %v), want (%q, %v)", token, goalID, gotDone, testGoalID, done)
		}
	}
}

func TestParseFinishToken_UnknownAnswer(t *testing.T) {
	_, _, ok := parseFinishToken("f:X:" + testGoalID)
	if ok {
		t.Error("parseFinishToken accepted an unknown answer marker")
	}
}

func TestResumeToken_RoundTrip(t *testing.T) {
	goalID, ok := parseResumeToken(ResumeToken(testGoalID))
	if !ok {
		t.Fatal("parseResumeToken rejected freshly built token")
	}
	if goalID != testGoalID {
		t.Errorf("goalID = %q, want %q", goalID, testGoalID)
	}
}

func TestParseResumeToken_Malformed(t *testing.T) {
	for _, data := range []string{"u", "u:"} {
		_, ok := parseResumeToken(data)
		if ok {
			t.Errorf("parseResumeToken(%q) = ok, want rejection", data)
		}
	}
}
