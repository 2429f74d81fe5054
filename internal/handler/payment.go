package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saferide/internal/repository"
	"saferide/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	settlement  *service.Settlement
	paymentRepo repository.PaymentRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(settlement *service.Settlement, paymentRepo repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{
		settlement:  settlement,
		paymentRepo: paymentRepo,
	}
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.settlement.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, paymentResponse(payment))
}

// GetRidePayments handles GET /v1/rides/:id/payments
func (h *PaymentHandler) GetRidePayments(c *gin.Context) {
	payments, err := h.paymentRepo.GetByRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, paymentResponse(p))
	}

	c.JSON(http.StatusOK, response)
}
