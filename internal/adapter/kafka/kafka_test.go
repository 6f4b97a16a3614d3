package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	assessedAt := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	assessment := domain.Assessment{
		ID:              "risk-0011223344556677",
		Outcome:         domain.OutcomeComputed,
		Coverage:        domain.CoverageReport{DistinctYears: 20, TotalSamples: 140, Adequate: true},
		Thresholds:      domain.DefaultThresholds(),
		ConfidenceLevel: 0.95,
		AssessedAt:      assessedAt,
	}

	msg, err := serializeToMessage(assessment)
	require.NoError(t, err)

	assert.Equal(t, []byte("risk-0011223344556677"), msg.Key)
	assert.Contains(t, string(msg.Value), `"outcome":"computed"`)
	assert.Contains(t, string(msg.Value), `"distinct_years":20`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "outcome", msg.Headers[0].Key)
	assert.Equal(t, []byte("computed"), msg.Headers[0].Value)
	assert.Equal(t, "assessed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(assessedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}
