package request

// CreatePaymentRequest initiates a gateway payment for a tariff purchase.
type CreatePaymentRequest struct {
	Value     string `json:"value" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	ReturnURL string `json:"returnUrl" binding:"required"`
	TariffID  string `json:"tariffId" binding:"required"`
}
