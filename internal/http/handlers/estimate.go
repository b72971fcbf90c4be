package handlers

import (
	"net/http"

	"broride/internal/utils"

	"github.com/gin-gonic/gin"
)

type estimatePayload struct {
	DistanceKm float64 `json:"distance_km"`
}

// EstimateCost runs the deterministic fare oracle: distance in, fair
// per-seat cost plus breakdown out.
func EstimateCost(c *gin.Context) {
	var payload estimatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	amount, breakdown, err := utils.EstimateCost(payload.DistanceKm)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid distance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fair_cost": amount,
		"currency":  "INR",
		"breakdown": breakdown,
	})
}
