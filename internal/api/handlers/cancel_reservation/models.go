package cancel_reservation

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Motive string  `json:"motive"`
	Policy *string `json:"policy,omitempty"` // flexible | moderate | strict
}
