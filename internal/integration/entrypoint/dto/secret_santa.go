package dto

// GeneratePairingsResponse is returned after a successful draw.
type GeneratePairingsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AssignmentResponse tells the caller who they give to.
type AssignmentResponse struct {
	HasPairing   bool   `json:"has_pairing"`
	ReceiverName string `json:"receiver_name,omitempty"`
	Message      string `json:"message,omitempty"`
}
