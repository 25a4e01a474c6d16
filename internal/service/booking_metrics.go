package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// bookingOutcomes counts how appointment bookings end up, labeled
// created, conflict or canceled.
var bookingOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_outcomes_total",
		Help: "Appointment booking outcomes",
	},
	[]string{"outcome"},
)
