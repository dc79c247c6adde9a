package request

// GenerateQRRequest asks for a fresh redemption code tied to the
// caller's active subscription.
type GenerateQRRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ValidateQRRequest redeems a scanned code on behalf of an operator.
type ValidateQRRequest struct {
	QRCode  string `json:"qrCode" binding:"required"`
	AdminID string `json:"adminId" binding:"required"`
}
