package services

import "hotel-backoffice/models"

// allowedTransitions is the reservation state machine. Checked_Out and
// Cancelled are terminal.
var allowedTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCheckedIn, models.StatusCancelled},
	models.StatusCheckedIn: {models.StatusCheckedOut},
}

// TransitionAllowed reports whether from → to is in the state machine.
// Re-setting the current status is always allowed.
func TransitionAllowed(from, to models.ReservationStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// roomStatusAfter is the room status a reservation status change implies,
// or "" when the room is left alone.
func roomStatusAfter(from, to models.ReservationStatus) models.RoomStatus {
	if from == to {
		return ""
	}
	switch {
	case to == models.StatusCheckedIn:
		return models.RoomOccupied
	case to == models.StatusCheckedOut:
		return models.RoomDirty
	case from == models.StatusCheckedIn:
		return models.RoomAvailable
	}
	return ""
}
