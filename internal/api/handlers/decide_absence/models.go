package decide_absence

// DecideAbsenceRequest HTTP request model
type DecideAbsenceRequest struct {
	Approve *bool `json:"approve"`
}
