package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated))

	before = testutil.ToFloat64(bookingConflicts)
	IncBookingConflict()
	IncBookingConflict()
	assert.Equal(t, before+2, testutil.ToFloat64(bookingConflicts))

	before = testutil.ToFloat64(statusTransitions.WithLabelValues("approved"))
	IncStatusTransition("approved")
	assert.Equal(t, before+1, testutil.ToFloat64(statusTransitions.WithLabelValues("approved")))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/bookings"))
	IncHTTP("/api/v1/bookings")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/bookings")))
}
