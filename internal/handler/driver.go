package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saferide/internal/domain"
	"saferide/internal/repository"
	"saferide/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	matcher    *service.Matcher
	driverRepo repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(matcher *service.Matcher, driverRepo repository.DriverRepository) *DriverHandler {
	return &DriverHandler{
		matcher:    matcher,
		driverRepo: driverRepo,
	}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name         string       `json:"name"`
	Vehicle      string       `json:"vehicle"`
	LicensePlate string       `json:"license_plate"`
	Rating       float64      `json:"rating"`
	Location     LocationBody `json:"location"`
}

// UpdateLocationRequest is the HTTP request body for updating driver location.
type UpdateLocationRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Vehicle      string       `json:"vehicle"`
	LicensePlate string       `json:"license_plate"`
	Rating       float64      `json:"rating"`
	Location     LocationBody `json:"location"`
	IsAvailable  bool         `json:"is_available"`
	ActiveRideID string       `json:"active_ride_id,omitempty"`
}

func driverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:           driver.ID,
		Name:         driver.Name,
		Vehicle:      driver.Vehicle,
		LicensePlate: driver.LicensePlate,
		Rating:       driver.Rating,
		Location:     locationBody(driver.Location),
		IsAvailable:  driver.IsAvailable,
		ActiveRideID: driver.ActiveRideID,
	}
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Vehicle == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and vehicle are required"})
		return
	}

	loc := req.Location.toDomain()
	if !loc.Valid() {
		respondError(c, service.ErrInvalidLocation)
		return
	}

	driver := &domain.Driver{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Vehicle:      req.Vehicle,
		LicensePlate: req.LicensePlate,
		Rating:       req.Rating,
		Location:     loc,
		IsAvailable:  true,
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	// Seed the geo index so the new driver is immediately matchable.
	_ = h.matcher.UpdateLocation(c.Request.Context(), driver.ID, loc)

	c.JSON(http.StatusCreated, driverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, driverResponse(d))
	}

	c.JSON(http.StatusOK, response)
}

// GetNearby handles GET /v1/drivers/nearby?lat=&lng=
func (h *DriverHandler) GetNearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng query parameters are required"})
		return
	}

	drivers, err := h.matcher.FindAvailable(c.Request.Context(), domain.Location{Latitude: lat, Longitude: lng})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, driverResponse(d))
	}

	c.JSON(http.StatusOK, response)
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.matcher.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.matcher.UpdateLocation(c.Request.Context(), c.Param("id"), domain.Location{
		Latitude:  req.Lat,
		Longitude: req.Lng,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
