package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxAnonNameLength   = 16
	maxRestaurantLength = 40
	maxLocationLength   = 60
	maxLinkLength       = 300
	maxReasonLength     = 70
	maxPostLength       = 500
	maxCommentLength    = 300
)

var reactionKinds = map[string]struct{}{
	"like":  {},
	"funny": {},
	"sad":   {},
	"angry": {},
}

func validateAnonName(name string) (string, error) {
	return validateText("name", name, maxAnonNameLength)
}

func validateRestaurantName(text string) (string, error) {
	return validateText("restaurant_name", text, maxRestaurantLength)
}

func validateReason(text string) (string, error) {
	return validateText("one_line_reason", text, maxReasonLength)
}

// validateLocation and validateLink accept empty input; both fields are
// optional on a recommendation.
func validateLocation(text string) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", nil
	}
	return validateText("location", trimmed, maxLocationLength)
}

func validateLink(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > maxLinkLength {
		return "", fmt.Errorf("link_url must be %d characters or fewer", maxLinkLength)
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return "", errors.New("link_url must start with http:// or https://")
	}
	return trimmed, nil
}

func validatePostBody(text string) (string, error) {
	return validateText("body", text, maxPostLength)
}

func validateCommentBody(text string) (string, error) {
	return validateText("body", text, maxCommentLength)
}

func validateReactionKind(kind string) (string, error) {
	trimmed := strings.TrimSpace(kind)
	if _, ok := reactionKinds[trimmed]; !ok {
		return "", errors.New("unknown reaction kind")
	}
	return trimmed, nil
}

func validateText(label, text string, maxRunes int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if utf8.RuneCountInString(trimmed) > maxRunes {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxRunes)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

// isSafeText rejects control characters but otherwise leaves the
// community's mixed Korean/English text alone.
func isSafeText(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError {
			return false
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
