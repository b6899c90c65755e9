package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"SlotCurator/internal/domain"
)

func TestValidateSubjectLine(t *testing.T) {
	t.Parallel()

	lead := domain.SlotPick{Headline: "Acme acquires Globex for $2B", Company: "Acme"}

	tests := []struct {
		name    string
		subject string
		wantErr bool
	}{
		{"compliant", "Acme buys Globex, and four more stories", false},
		{"company case-insensitive", "Why ACME's deal matters today", false},
		{"empty", "   ", true},
		{"too long", "Acme " + strings.Repeat("x", MaxSubjectLength), true},
		{"doubled punctuation", "Acme buys Globex!!", true},
		{"banned phrase", "Acme's guaranteed winners this week", true},
		{"no lead reference", "Five stories you should read today", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubjectLine(tt.subject, lead)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSubjectRejected)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSubjectLineHeadlineFallback(t *testing.T) {
	t.Parallel()

	// No company on the lead pick: a significant headline token must appear.
	lead := domain.SlotPick{Headline: "Datacenter spending doubles in Europe"}

	assert.NoError(t, ValidateSubjectLine("The datacenter boom, explained", lead))
	assert.ErrorIs(t, ValidateSubjectLine("Five stories worth your time", lead), ErrSubjectRejected)
}
