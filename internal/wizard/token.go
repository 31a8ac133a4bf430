// Package wizard drives the multi-screen "create a goal with a custom
// deadline" dialogue without any server-side session: every inline button
// carries the full dialogue state serialized into its callback payload, and
// each press is decoded, advanced one stage, and re-encoded into the next
// screen's buttons.
package wizard

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/shagtracker/shagbot/internal/model"
)

type Stage string

const (
	// StageCategory: description captured, category picked.
	StageCategory Stage = "c"
	// StagePreset: a preset duration picked; terminal, creates the goal ACTIVE.
	StagePreset Stage = "p"
	// StageCustom: "pick a date" elected; creates the draft goal.
	StageCustom Stage = "w"
	StageYear   Stage = "y"
	StageMonth  Stage = "m"
	StageDay    Stage = "d"
	// StageTime: hour picked; terminal, flips the draft to ACTIVE.
	StageTime Stage = "t"
)

// MaxTokenLen is the callback-payload ceiling of the messaging platform.
// Encode never exceeds it.
const MaxTokenLen = 64

// descBudget is the escaped-byte budget for the description prefix. With the
// stage and category markers and separators, the longest description-carrying
// token ("p" with a two-digit month count) stays within MaxTokenLen.
const descBudget = 40

var (
	ErrMalformedToken = errors.New("malformed wizard token")
	ErrUnknownStage   = errors.New("unknown wizard stage")
)

// State is the decoded wizard progress. Fields accumulate as the dialogue
// advances; Desc is carried only until the draft goal exists, after which
// GoalID replaces it (a uuid and a useful description prefix cannot both fit
// under MaxTokenLen).
type State struct {
	Stage    Stage
	Category string // model.CategoryPersonal or model.CategoryBusiness
	Desc     string // truncated description prefix; empty once GoalID is set
	Months   int    // preset duration, StagePreset only
	GoalID   string // draft goal id, StageYear onward
	Year     int
	Month    int // 0-based month index
	Day      int
	Hour     int
}

// ClampDesc truncates a free-text description so that its URL-escaped form
// fits the token's budget. Truncation is per rune, so multi-byte text is
// never cut mid-escape.
func ClampDesc(desc string) string {
	var raw strings.Builder
	size := 0
	for _, r := range desc {
		esc := url.QueryEscape(string(r))
		if size+len(esc) > descBudget {
			break
		}
		size += len(esc)
		raw.WriteRune(r)
	}
	return raw.String()
}

// Encode serializes the state into a colon-joined token. It is deterministic
// and total over valid states; the description is clamped so the result never
// exceeds MaxTokenLen.
func Encode(s State) string {
	parts := []string{string(s.Stage), encodeCategory(s.Category)}

	switch s.Stage {
	case StageCategory, StageCustom:
		parts = append(parts, url.QueryEscape(ClampDesc(s.Desc)))
	case StagePreset:
		parts = append(parts, url.QueryEscape(ClampDesc(s.Desc)), strconv.Itoa(s.Months))
	case StageTime:
		parts = append(parts, s.GoalID, strconv.Itoa(s.Year), strconv.Itoa(s.Month), strconv.Itoa(s.Day), strconv.Itoa(s.Hour))
	case StageDay:
		parts = append(parts, s.GoalID, strconv.Itoa(s.Year), strconv.Itoa(s.Month), strconv.Itoa(s.Day))
	case StageMonth:
		parts = append(parts, s.GoalID, strconv.Itoa(s.Year), strconv.Itoa(s.Month))
	case StageYear:
		parts = append(parts, s.GoalID, strconv.Itoa(s.Year))
	}

	return strings.Join(parts, ":")
}

// Decode parses a token back into a State. It fails with ErrUnknownStage when
// the leading marker is not a wizard stage and ErrMalformedToken when the
// remaining fields do not match that stage's grammar. There are no partial
// parses: any token either decodes fully or errors.
func Decode(token string) (State, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 {
		if len(parts) == 0 || !knownStage(parts[0]) {
			return State{}, ErrUnknownStage
		}
		return State{}, ErrMalformedToken
	}

	stage := Stage(parts[0])
	if !knownStage(parts[0]) {
		return State{}, ErrUnknownStage
	}

	category, err := decodeCategory(parts[1])
	if err != nil {
		return State{}, err
	}

	s := State{Stage: stage, Category: category}
	rest := parts[2:]

	switch stage {
	case StageCategory, StageCustom:
		if len(rest) != 1 {
			return State{}, ErrMalformedToken
		}
		s.Desc, err = url.QueryUnescape(rest[0])
		if err != nil {
			return State{}, ErrMalformedToken
		}
	case StagePreset:
		if len(rest) != 2 {
			return State{}, ErrMalformedToken
		}
		s.Desc, err = url.QueryUnescape(rest[0])
		if err != nil {
			return State{}, ErrMalformedToken
		}
		s.Months, err = intInRange(rest[1], 1, 12)
		if err != nil {
			return State{}, err
		}
	case StageYear, StageMonth, StageDay, StageTime:
		want := 2 + stageDateFields(stage)
		if len(rest) != want {
			return State{}, ErrMalformedToken
		}
		if rest[0] == "" {
			return State{}, ErrMalformedToken
		}
		s.GoalID = rest[0]

		s.Year, err = intInRange(rest[1], 2000, 2100)
		if err != nil {
			return State{}, err
		}
		if stage == StageYear {
			break
		}
		s.Month, err = intInRange(rest[2], 0, 11)
		if err != nil {
			return State{}, err
		}
		if stage == StageMonth {
			break
		}
		s.Day, err = intInRange(rest[3], 1, 31)
		if err != nil {
			return State{}, err
		}
		if stage == StageDay {
			break
		}
		s.Hour, err = intInRange(rest[4], 0, 23)
		if err != nil {
			return State{}, err
		}
	}

	return s, nil
}

// stageDateFields is how many date fields beyond the year a stage carries.
func stageDateFields(stage Stage) int {
	switch stage {
	case StageMonth:
		return 1
	case StageDay:
		return 2
	case StageTime:
		return 3
	default:
		return 0
	}
}

func knownStage(marker string) bool {
	switch Stage(marker) {
	case StageCategory, StagePreset, StageCustom, StageYear, StageMonth, StageDay, StageTime:
		return true
	}
	return false
}

func encodeCategory(category string) string {
	if category == model.CategoryBusiness {
		return "B"
	}
	return "P"
}

func decodeCategory(wire string) (string, error) {
	switch wire {
	case "P":
		return model.CategoryPersonal, nil
	case "B":
		return model.CategoryBusiness, nil
	}
	return "", ErrMalformedToken
}

func intInRange(raw string, min, max int) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, ErrMalformedToken
	}
	return n, nil
}
