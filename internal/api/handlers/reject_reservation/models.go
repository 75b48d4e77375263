package reject_reservation

// RejectReservationRequest HTTP request model
type RejectReservationRequest struct {
	Motive string `json:"motive"`
}
