package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saferide/internal/service"
)

// LocationHandler handles HTTP requests for location search.
type LocationHandler struct {
	geocoder service.Geocoder
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(geocoder service.Geocoder) *LocationHandler {
	return &LocationHandler{geocoder: geocoder}
}

// Search handles GET /v1/locations?q=
func (h *LocationHandler) Search(c *gin.Context) {
	locations, err := h.geocoder.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LocationBody, 0, len(locations))
	for _, loc := range locations {
		response = append(response, locationBody(loc))
	}

	c.JSON(http.StatusOK, response)
}
