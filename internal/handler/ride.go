package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"saferide/internal/domain"
	"saferide/internal/service"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// LocationBody is the JSON shape for a location in requests and responses.
type LocationBody struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

func (b LocationBody) toDomain() domain.Location {
	return domain.Location{Latitude: b.Lat, Longitude: b.Lng, Address: b.Address}
}

func locationBody(loc domain.Location) LocationBody {
	return LocationBody{Lat: loc.Latitude, Lng: loc.Longitude, Address: loc.Address}
}

// RequestRideRequest is the HTTP request body for requesting a ride.
type RequestRideRequest struct {
	UserID     string       `json:"user_id"`
	Pickup     LocationBody `json:"pickup"`
	Dropoff    LocationBody `json:"dropoff"`
	RideTypeID string       `json:"ride_type_id"`
}

// ConfirmPaymentRequest is the HTTP request body for confirming payment.
type ConfirmPaymentRequest struct {
	Method string `json:"method"`
}

// AdvanceRideRequest is the HTTP request body for advancing a ride.
type AdvanceRideRequest struct {
	Status string `json:"status"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	DriverID    string       `json:"driver_id,omitempty"`
	Pickup      LocationBody `json:"pickup"`
	Dropoff     LocationBody `json:"dropoff"`
	RideTypeID  string       `json:"ride_type_id"`
	Status      string       `json:"status"`
	Price       float64      `json:"price"`
	DistanceKm  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

func rideResponse(ride *domain.Ride) RideResponse {
	return RideResponse{
		ID:          ride.ID,
		UserID:      ride.UserID,
		DriverID:    ride.DriverID,
		Pickup:      locationBody(ride.Pickup),
		Dropoff:     locationBody(ride.Dropoff),
		RideTypeID:  ride.RideType.ID,
		Status:      string(ride.Status),
		Price:       service.RoundPrice(ride.Price),
		DistanceKm:  ride.DistanceKm,
		DurationMin: ride.DurationMin,
		CreatedAt:   ride.CreatedAt.Format(timeLayout),
		UpdatedAt:   ride.UpdatedAt.Format(timeLayout),
	}
}

// PaymentResponse is the HTTP response for payment data.
type PaymentResponse struct {
	ID            string  `json:"id"`
	RideID        string  `json:"ride_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Method        string  `json:"method"`
	FailureReason string  `json:"failure_reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func paymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID,
		RideID:        payment.RideID,
		Amount:        service.RoundPrice(payment.Amount),
		Status:        string(payment.Status),
		Method:        string(payment.Method),
		FailureReason: payment.FailureReason,
		CreatedAt:     payment.CreatedAt.Format(timeLayout),
	}
}

// TrackResponse is the HTTP response for ride tracking.
type TrackResponse struct {
	Ride   RideResponse    `json:"ride"`
	Driver *DriverResponse `json:"driver,omitempty"`
	ETAMin float64         `json:"eta_min"`
}

// RideTypeResponse is the HTTP response for a catalog entry.
type RideTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	PricePerKm  float64 `json:"price_per_km"`
	Icon        string  `json:"icon"`
}

// ReceiptResponse is the HTTP response for a ride receipt.
type ReceiptResponse struct {
	RideID        string       `json:"ride_id"`
	UserID        string       `json:"user_id"`
	DriverID      string       `json:"driver_id"`
	Pickup        LocationBody `json:"pickup"`
	Dropoff       LocationBody `json:"dropoff"`
	RideType      string       `json:"ride_type"`
	BasePrice     float64      `json:"base_price"`
	PricePerKm    float64      `json:"price_per_km"`
	DistanceKm    float64      `json:"distance_km"`
	DurationMin   float64      `json:"duration_min"`
	Total         float64      `json:"total"`
	PaymentMethod string       `json:"payment_method,omitempty"`
	PaymentStatus string       `json:"payment_status,omitempty"`
	CreatedAt     string       `json:"created_at"`
	CompletedAt   string       `json:"completed_at"`
}

// RequestRide handles POST /v1/rides
func (h *RideHandler) RequestRide(c *gin.Context) {
	var req RequestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.RequestRide(
		c.Request.Context(),
		req.UserID,
		req.Pickup.toDomain(),
		req.Dropoff.toDomain(),
		req.RideTypeID,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, rideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	result, err := h.rideService.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := TrackResponse{
		Ride:   rideResponse(result.Ride),
		ETAMin: result.ETAMin,
	}
	if result.Driver != nil {
		dr := driverResponse(result.Driver)
		response.Driver = &dr
	}

	respondJSON(c, http.StatusOK, response)
}

// ConfirmPayment handles POST /v1/rides/:id/payment
func (h *RideHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	method, err := service.ValidatePaymentMethod(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.rideService.ConfirmPayment(c.Request.Context(), c.Param("id"), method)
	if err != nil {
		// A declined charge still carries the failed payment record.
		if errors.Is(err, service.ErrPaymentDeclined) && result != nil {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":   err.Error(),
				"ride":    rideResponse(result.Ride),
				"payment": paymentResponse(result.Payment),
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"ride":    rideResponse(result.Ride),
		"payment": paymentResponse(result.Payment),
	})
}

// AdvanceRide handles POST /v1/rides/:id/advance
func (h *RideHandler) AdvanceRide(c *gin.Context) {
	var req AdvanceRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Advance(c.Request.Context(), c.Param("id"), domain.RideStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.rideService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// GetReceipt handles GET /v1/rides/:id/receipt
func (h *RideHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.rideService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReceiptResponse{
		RideID:        receipt.RideID,
		UserID:        receipt.UserID,
		DriverID:      receipt.DriverID,
		Pickup:        locationBody(receipt.Pickup),
		Dropoff:       locationBody(receipt.Dropoff),
		RideType:      receipt.RideTypeName,
		BasePrice:     receipt.BasePrice,
		PricePerKm:    receipt.PricePerKm,
		DistanceKm:    receipt.DistanceKm,
		DurationMin:   receipt.DurationMin,
		Total:         receipt.Total,
		PaymentMethod: string(receipt.PaymentMethod),
		PaymentStatus: string(receipt.PaymentStatus),
		CreatedAt:     receipt.CreatedAt.Format(timeLayout),
		CompletedAt:   receipt.CompletedAt.Format(timeLayout),
	})
}

// GetUserRides handles GET /v1/users/:id/rides
func (h *RideHandler) GetUserRides(c *gin.Context) {
	rides, err := h.rideService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, rideResponse(ride))
	}

	c.JSON(http.StatusOK, response)
}

// GetRideTypes handles GET /v1/ridetypes
func (h *RideHandler) GetRideTypes(c *gin.Context) {
	types, err := h.rideService.RideTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideTypeResponse, 0, len(types))
	for _, t := range types {
		response = append(response, RideTypeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			BasePrice:   t.BasePrice,
			PricePerKm:  t.PricePerKm,
			Icon:        t.Icon,
		})
	}

	c.JSON(http.StatusOK, response)
}
