// Package intake classifies one inbound message into a closed set of intents
// exactly once, at the boundary. Handlers then dispatch on the variant type
// instead of probing the raw text repeatedly.
package intake

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the closed variant of everything a text message can mean.
type Intent interface {
	intent()
}

// NumericReport is a progress report: a leading numeric literal plus an
// optional note. ValueText is the normalized literal ("5,5" → "5.5") and is
// what travels through button payloads, so the value round-trips exactly
// instead of going through a float re-format.
type NumericReport struct {
	ValueText string
	Value     float64
	Note      string
}

// NewGoalText is free text with no leading number: a prospective goal
// description.
type NewGoalText struct {
	Text string
}

// Command is a slash command: /start, /help, /idea <text>.
type Command struct {
	Name string
	Args string
}

func (NumericReport) intent() {}
func (NewGoalText) intent()   {}
func (Command) intent()       {}

// leadingNumber matches an integer or decimal literal at the start of the
// message, with a dot or comma separator.
var leadingNumber = regexp.MustCompile(`^(\d+([.,]\d+)?)`)

// Parse classifies a message. The zero-effort cases first: commands by
// prefix, then a leading numeric literal, then plain text.
func Parse(text string) Intent {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		name, args, _ := strings.Cut(text[1:], " ")
		if at := strings.Index(name, "@"); at >= 0 {
			name = name[:at] // strip the @botname suffix of group commands
		}
		return Command{Name: name, Args: strings.TrimSpace(args)}
	}

	if m := leadingNumber.FindString(text); m != "" {
		valueText := strings.ReplaceAll(m, ",", ".")
		value, err := strconv.ParseFloat(valueText, 64)
		if err == nil {
			return NumericReport{
				ValueText: valueText,
				Value:     value,
				Note:      strings.TrimSpace(text[len(m):]),
			}
		}
	}

	return NewGoalText{Text: text}
}
