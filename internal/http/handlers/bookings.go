package handlers

import (
	"net/http"

	"broride/internal/domain/models"
	"broride/internal/http/middleware"
	"broride/internal/services"

	"github.com/gin-gonic/gin"
)

type requestBookingPayload struct {
	RouteID string `json:"route_id"`
}

// RequestBooking claims a seat on a route for the acting buddy.
func RequestBooking(c *gin.Context) {
	buddyID, ok := requireActingUser(c)
	if !ok {
		return
	}

	var payload requestBookingPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	booking, err := coordinator(c).RequestBooking(payload.RouteID, buddyID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListMyBookings returns the acting user's bookings; ?role=buddy (default)
// or ?role=rider selects the side.
func ListMyBookings(c *gin.Context) {
	userID, ok := requireActingUser(c)
	if !ok {
		return
	}
	role := models.Role(c.DefaultQuery("role", string(models.RoleBuddy)))

	bookings, err := coordinator(c).ListBookingsForUser(userID, role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

func GetBooking(c *gin.Context) {
	booking, err := deps.Bookings.GetBooking(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// AcceptBooking lets the route owner confirm a pending request.
func AcceptBooking(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}
	booking, err := coordinator(c).AcceptBooking(c.Param("id"), riderID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// DeclineBooking lets the route owner reject a pending request.
func DeclineBooking(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}
	booking, err := coordinator(c).DeclineBooking(c.Param("id"), riderID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// CancelBooking lets the requesting buddy withdraw.
func CancelBooking(c *gin.Context) {
	buddyID, ok := requireActingUser(c)
	if !ok {
		return
	}
	booking, err := coordinator(c).CancelBooking(c.Param("id"), buddyID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetBookingReceipt streams the payment receipt PDF for an accepted booking.
func GetBookingReceipt(c *gin.Context) {
	docs := services.DocsService{Routes: deps.Routes, Bookings: deps.Bookings, RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := docs.GenerateReceipt(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
