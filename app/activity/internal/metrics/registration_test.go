package metrics

import (
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistrationMetrics("ouderenapp", reg)

	m.ObserveOutcome(registration.OutcomeAdmitted)
	m.ObserveOutcome(registration.OutcomeAdmitted)
	m.ObserveOutcome(registration.OutcomeCapacityExceeded)
	m.ObserveDuration("register", 3*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.outcomes.WithLabelValues("admitted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomes.WithLabelValues("capacity_exceeded")))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
