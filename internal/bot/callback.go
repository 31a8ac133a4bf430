package bot

import (
	"strings"

	"github.com/shagtracker/shagbot/internal/wizard"
)

// Callback prefixes outside the wizard's stage set. Single letters, same
// payload-size discipline as the wizard tokens.
const (
	cbMetric  = "r" // r:<goalID>:<valueText>, metric disambiguation pick
	cbFinish  = "f" // f:Y|N:<goalID>, deadline confirm answer
	cbResume  = "u" // u:<goalID>, reopen a completed goal
	cbNewGoal = "n" // prompt for a fresh goal description
)

// MetricToken encodes a (goal, value) pair for the "which goal?" buttons.
// The value travels as its normalized text so it round-trips exactly. If an
// absurdly long literal would push past the payload ceiling, the literal is
// cut to fit; real reports are a handful of digits.
func MetricToken(goalID, valueText string) string {
	limit := wizard.MaxTokenLen - len(cbMetric) - len(goalID) - 2
	if len(valueText) > limit {
		valueText = valueText[:limit]
	}
	return cbMetric + ":" + goalID + ":" + valueText
}

// FinishToken encodes the yes/no answer to "did you make it?".
func FinishToken(goalID string, done bool) string {
	answer := "N"
	if done {
		answer = "Y"
	}
	return cbFinish + ":" + answer + ":" + goalID
}

func ResumeToken(goalID string) string {
	return cbResume + ":" + goalID
}

func NewGoalToken() string {
	return cbNewGoal
}

func parseMetricToken(data string) (goalID, valueText string, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func parseFinishToken(data string) (goalID string, done, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", false, false
	}
	switch parts[1] {
	case "Y":
		return parts[2], true, true
	case "N":
		return parts[2], false, true
	}
	return "", false, false
}

func parseResumeToken(data string) (goalID string, ok bool) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
