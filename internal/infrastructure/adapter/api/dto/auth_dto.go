package dto

// SetPINRequest sets the transaction PIN
type SetPINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
