package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCarryFiveSlots(t *testing.T) {
	cfg := Load()

	require.Len(t, cfg.Newsletter.Slots, 5)
	for i, slot := range cfg.Newsletter.Slots {
		assert.Equal(t, i+1, slot.Number)
		assert.Positive(t, slot.BaseFreshnessHours)
	}
	assert.Equal(t, 14, cfg.Newsletter.LookbackDays)
	assert.Equal(t, 2, cfg.Newsletter.SourceCap)
}

func TestSlotDefinitionConversion(t *testing.T) {
	slot := SlotConfig{Number: 1, Focus: "lead", BaseFreshnessHours: 24, WeekendExtensionHours: 72}
	def := slot.Definition()

	assert.Equal(t, 1, def.Number)
	assert.Equal(t, 24*time.Hour, def.BaseFreshness)
	assert.Equal(t, 72*time.Hour, def.WeekendExtension)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	raw := `
newsletter:
  variant: weekly
  lookbackDays: 7
  slots:
    - number: 1
      focus: "custom lead"
      baseFreshnessHours: 12
      weekendExtensionHours: 48
scheduler:
  runAt: "07:30"
logging:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("SLOT_CURATOR_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "weekly", cfg.Newsletter.Variant)
	assert.Equal(t, 7, cfg.Newsletter.LookbackDays)
	require.Len(t, cfg.Newsletter.Slots, 1, "file slots replace defaults wholesale")
	assert.Equal(t, "custom lead", cfg.Newsletter.Slots[0].Focus)
	assert.Equal(t, "07:30", cfg.Scheduler.RunAt)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Untouched sections keep their defaults.
	assert.Equal(t, 2, cfg.Newsletter.SourceCap)
	assert.NotEmpty(t, cfg.Selection.Endpoint)
}

func TestEnvOverridesApply(t *testing.T) {
	t.Setenv("SLOT_CURATOR_CONFIG", "")
	t.Setenv("DATABASE_DSN", "postgres://test@db/issues")
	t.Setenv("LLM_API_KEY", "secret")

	cfg := Load()

	assert.Equal(t, "postgres://test@db/issues", cfg.Database.DSN)
	assert.Equal(t, "secret", cfg.Selection.APIKey)
	assert.Equal(t, "secret", cfg.Composition.APIKey)
}
