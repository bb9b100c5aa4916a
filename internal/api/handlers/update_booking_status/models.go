package update_booking_status

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string `json:"bookingStatus"` // "confirmed" | "cancelled"
}
