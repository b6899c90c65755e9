package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"SlotCurator/internal/domain"
)

// MaxSubjectLength is the hard cap on subject line length in runes.
const MaxSubjectLength = 80

// ErrSubjectRejected marks a composed subject line that violates the
// formatting constraints. The composer is not asked to retry; rejection
// surfaces as a loud run-level failure.
var ErrSubjectRejected = errors.New("subject line rejected")

var doubledPunct = regexp.MustCompile(`[!?.,;:]{2,}`)

// Promotional vocabulary the newsletter never uses in subjects.
var bannedSubjectPhrases = []string{
	"free",
	"act now",
	"limited time",
	"click here",
	"don't miss",
	"buy now",
	"guaranteed",
	"exclusive offer",
}

var leadStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "after": {},
	"over": {}, "into": {}, "amid": {}, "their": {}, "more": {},
	"than": {}, "will": {}, "have": {}, "been": {}, "says": {},
}

// ValidateSubjectLine enforces the fixed subject constraints: bounded
// length, no doubled punctuation, no promotional vocabulary, and a
// reference to a concrete entity from the lead slot.
func ValidateSubjectLine(subject string, lead domain.SlotPick) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return fmt.Errorf("%w: empty", ErrSubjectRejected)
	}
	if n := utf8.RuneCountInString(subject); n > MaxSubjectLength {
		return fmt.Errorf("%w: %d runes exceeds limit of %d", ErrSubjectRejected, n, MaxSubjectLength)
	}
	if doubledPunct.MatchString(subject) {
		return fmt.Errorf("%w: doubled punctuation", ErrSubjectRejected)
	}

	lower := strings.ToLower(subject)
	for _, phrase := range bannedSubjectPhrases {
		if strings.Contains(lower, phrase) {
			return fmt.Errorf("%w: banned phrase %q", ErrSubjectRejected, phrase)
		}
	}

	if !mentionsLeadEntity(lower, lead) {
		return fmt.Errorf("%w: no reference to the lead story", ErrSubjectRejected)
	}

	return nil
}

// mentionsLeadEntity checks the lead company first, then falls back to
// significant headline tokens when the lead item carries no company.
func mentionsLeadEntity(lowerSubject string, lead domain.SlotPick) bool {
	if lead.Company != "" {
		return strings.Contains(lowerSubject, strings.ToLower(lead.Company))
	}

	for _, token := range strings.Fields(strings.ToLower(lead.Headline)) {
		token = strings.Trim(token, `.,:;!?"'()`)
		if len(token) < 4 {
			continue
		}
		if _, stop := leadStopwords[token]; stop {
			continue
		}
		if strings.Contains(lowerSubject, token) {
			return true
		}
	}
	return false
}
