package handlers

import (
	"net/http"
	"strconv"

	"broride/internal/http/middleware"
	"broride/internal/services"
	"broride/internal/utils"

	"github.com/gin-gonic/gin"
)

func catalog(c *gin.Context) services.CatalogService {
	return services.CatalogService{Routes: deps.Routes, RequestID: middleware.GetRequestID(c)}
}

func coordinator(c *gin.Context) services.BookingService {
	return services.BookingService{
		Routes:    deps.Routes,
		Bookings:  deps.Bookings,
		Events:    deps.Events,
		RequestID: middleware.GetRequestID(c),
	}
}

// CreateRoute posts a new ride offer for the acting rider.
func CreateRoute(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}

	var params services.CreateRouteParams
	if !BindJSONOrError(c, &params) {
		return
	}

	route, err := catalog(c).CreateRoute(riderID, params)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// SearchRoutes answers both the "find a ride" search and the browse-all
// listing; criteria arrive as query params.
func SearchRoutes(c *gin.Context) {
	criteria := services.SearchCriteria{
		Destination:   c.Query("destination"),
		StartPoint:    c.Query("start_point"),
		PreferredTime: c.Query("preferred_time"),
		Days:          utils.SplitList(c.Query("days")),
		IncludeFull:   c.Query("include_full") == "1" || c.Query("include_full") == "true",
	}
	if v := c.Query("tolerance_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "invalid tolerance_minutes", err)
			return
		}
		criteria.ToleranceMinutes = n
	}
	if v := c.Query("min_seats"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "invalid min_seats", err)
			return
		}
		criteria.MinSeats = n
	}
	if v := c.Query("max_cost"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "invalid max_cost", err)
			return
		}
		criteria.MaxCost = &n
	}

	search := services.SearchService{Routes: deps.Routes}
	routes, err := search.Search(criteria)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

func GetRoute(c *gin.Context) {
	route, err := catalog(c).GetRoute(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// CancelRoute withdraws the route and cascades its bookings.
func CancelRoute(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}
	route, err := coordinator(c).CancelRoute(c.Param("id"), riderID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// CompleteRoute marks the route as done after the scheduled departure.
func CompleteRoute(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}
	route, err := coordinator(c).CompleteRoute(c.Param("id"), riderID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// ListRouteBookings returns the roster for a route.
func ListRouteBookings(c *gin.Context) {
	bookings, err := coordinator(c).ListBookingsForRoute(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// GetRouteManifest streams the owner-only roster PDF.
func GetRouteManifest(c *gin.Context) {
	riderID, ok := requireActingUser(c)
	if !ok {
		return
	}
	docs := services.DocsService{Routes: deps.Routes, Bookings: deps.Bookings, RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := docs.GenerateManifest(c.Param("id"), riderID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
