package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablemate_reservations_created_total",
		Help: "Reservations booked, by table type.",
	}, []string{"table_type"})

	reservationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablemate_reservation_transitions_total",
		Help: "Reservation status changes, by origin and target status.",
	}, []string{"from", "to"})

	rejectedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablemate_reservation_transitions_rejected_total",
		Help: "Status changes refused by the reservation lifecycle.",
	}, []string{"from", "to"})

	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablemate_reservation_reminders_total",
		Help: "Upcoming-reservation reminders raised.",
	})
)
