package models

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

var ReservationStatuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsUpcoming groups the statuses shown under "upcoming" in a reservation history.
func (s ReservationStatus) IsUpcoming() bool {
	return s == StatusPending || s == StatusConfirmed
}

// target status -> statuses it may be entered from
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	StatusConfirmed: {StatusPending},
	StatusCancelled: {StatusPending, StatusConfirmed},
	StatusCompleted: {StatusConfirmed},
}

// CanTransition reports whether a reservation in status from may move to status to.
func CanTransition(from, to ReservationStatus) bool {
	allowed, ok := reservationTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}
