//go:build e2e

package payment_test

import (
	"context"
	"net/http"
	"testing"

	"sessionpass/tests/common/dbtest"
	"sessionpass/tests/common/httptest"
	"sessionpass/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	paymentURL      = "/api/payment"
	notificationURL = "/api/payment/notification"
)

type PaymentSuite struct {
	e2e.SharedSuite
}

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentSuite))
}

func (s *PaymentSuite) createPayment(userID, tariffID uuid.UUID, orderID string) string {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, paymentURL, map[string]any{
		"value":     "5000.00",
		"userId":    userID.String(),
		"orderId":   orderID,
		"returnUrl": "https://app.example/return",
		"tariffId":  tariffID.String(),
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	httptest.DecodeJSON(s.T(), w, &body)
	paymentID, _ := body["paymentId"].(string)
	s.Require().NotEmpty(paymentID)
	s.Require().NotEmpty(body["confirmationUrl"])
	return paymentID
}

func (s *PaymentSuite) notifySucceeded(paymentID string, userID, tariffID uuid.UUID) int {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, notificationURL, map[string]any{
		"event": "payment.succeeded",
		"object": map[string]any{
			"id":     paymentID,
			"status": "succeeded",
			"paid":   true,
			"metadata": map[string]string{
				"userId":   userID.String(),
				"tariffId": tariffID.String(),
			},
		},
	})
	return w.Code
}

func (s *PaymentSuite) TestPaymentActivatesSubscription() {
	t := s.T()
	userID := dbtest.CreateTestUser(t, s.DB, uuid.NewString()+"@example.com")
	tariffID := dbtest.CreateTestTariff(t, s.DB, "Абонемент 10 занятий", "1 месяц", 10, 500000)

	paymentID := s.createPayment(userID, tariffID, "order-"+uuid.NewString())

	s.Equal(http.StatusOK, s.notifySucceeded(paymentID, userID, tariffID))

	var subID uuid.UUID
	var remaining int
	err := s.DB.QueryRow(context.Background(),
		`SELECT id, remaining_sessions FROM subscriptions WHERE payment_id = $1`, paymentID).
		Scan(&subID, &remaining)
	s.Require().NoError(err, "subscription should exist for the payment")
	s.Equal(10, remaining)

	// User mirror follows the activation.
	var mirrorSub uuid.UUID
	var mirrorActive bool
	err = s.DB.QueryRow(context.Background(),
		`SELECT active_subscription_id, is_subscription_active FROM users WHERE id = $1`, userID).
		Scan(&mirrorSub, &mirrorActive)
	s.Require().NoError(err)
	s.Equal(subID, mirrorSub)
	s.True(mirrorActive)

	// Status endpoint reflects the recorded event.
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/payment/"+paymentID+"/status", nil)
	s.Equal(http.StatusOK, w.Code)
	var body map[string]any
	httptest.DecodeJSON(s.T(), w, &body)
	s.Equal("succeeded", body["status"])
	s.Equal(true, body["paid"])
}

func (s *PaymentSuite) TestRedeliveredNotificationIsIdempotent() {
	t := s.T()
	userID := dbtest.CreateTestUser(t, s.DB, uuid.NewString()+"@example.com")
	tariffID := dbtest.CreateTestTariff(t, s.DB, "Абонемент 5 занятий", "14 дней", 5, 300000)

	paymentID := s.createPayment(userID, tariffID, "order-"+uuid.NewString())

	s.Equal(http.StatusOK, s.notifySucceeded(paymentID, userID, tariffID))
	s.Equal(http.StatusOK, s.notifySucceeded(paymentID, userID, tariffID))

	var count int
	err := s.DB.QueryRow(context.Background(),
		`SELECT count(*) FROM subscriptions WHERE payment_id = $1`, paymentID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count, "redelivery must not create a second subscription")
}

func (s *PaymentSuite) TestNotificationForUnknownPayment() {
	userID := dbtest.CreateTestUser(s.T(), s.DB, uuid.NewString()+"@example.com")
	tariffID := dbtest.CreateTestTariff(s.T(), s.DB, "Абонемент", "1 месяц", 5, 300000)

	s.Equal(http.StatusNotFound, s.notifySucceeded("never-created", userID, tariffID))
}

func (s *PaymentSuite) TestCreatePaymentForUnknownTariff() {
	userID := dbtest.CreateTestUser(s.T(), s.DB, uuid.NewString()+"@example.com")

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, paymentURL, map[string]any{
		"value":     "5000.00",
		"userId":    userID.String(),
		"orderId":   "order-" + uuid.NewString(),
		"returnUrl": "https://app.example/return",
		"tariffId":  uuid.NewString(),
	})
	s.Equal(http.StatusNotFound, w.Code)

	var body map[string]any
	httptest.DecodeJSON(s.T(), w, &body)
	s.Equal("tariff_not_found", body["code"])
}
