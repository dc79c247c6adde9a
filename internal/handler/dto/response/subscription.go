package response

import (
	"time"

	"sessionpass/internal/usecase/commands"
)

type GenerateQRResponse struct {
	QRCode            string    `json:"qrCode"`
	ExpiresAt         time.Time `json:"expiresAt"`
	RemainingSessions int       `json:"remainingSessions"`
}

type ValidateQRResponse struct {
	Success           bool `json:"success"`
	RemainingSessions int  `json:"remainingSessions"`
}

func FromIssueCodeResult(r *commands.IssueCodeResult) *GenerateQRResponse {
	return &GenerateQRResponse{
		QRCode:            r.Code,
		ExpiresAt:         r.ExpiresAt,
		RemainingSessions: r.RemainingSessions,
	}
}

func FromValidateCodeResult(r *commands.ValidateCodeResult) *ValidateQRResponse {
	return &ValidateQRResponse{
		Success:           true,
		RemainingSessions: r.RemainingSessions,
	}
}
