package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"broride/internal/domain"
	"broride/internal/domain/models"
	"broride/internal/repositories"
	"broride/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the printable views of the ledger: a payment receipt
// for an accepted booking and a seat manifest for the route owner.
type DocsService struct {
	Routes    repositories.RouteStore
	Bookings  repositories.BookingStore
	RequestID string
}

// GenerateReceipt builds a per-seat payment receipt PDF for an accepted or
// completed booking.
func (s DocsService) GenerateReceipt(bookingID string) ([]byte, string, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.Status != models.BookingAccepted && booking.Status != models.BookingCompleted {
		return nil, "", domain.InvalidStateError{
			Resource: "booking",
			From:     string(booking.Status),
			To:       "receipt",
		}
	}
	route, err := s.Routes.GetRoute(booking.RouteID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "booking_id="+bookingID)
	return buildReceiptPDF(booking, route)
}

// GenerateManifest builds the booking roster PDF for a route. Only the
// owning rider may request it.
func (s DocsService) GenerateManifest(routeID, actingRiderID string) ([]byte, string, error) {
	route, err := s.Routes.GetRoute(routeID)
	if err != nil {
		return nil, "", err
	}
	if route.RiderID != actingRiderID {
		return nil, "", domain.ForbiddenError{Action: "view this manifest", UserID: actingRiderID}
	}
	bookings, err := s.Bookings.ListBookingsByRoute(routeID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_manifest", "route_id="+routeID)
	return buildManifestPDF(route, bookings)
}

func buildReceiptPDF(b models.Booking, r models.Route) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("BroRide Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BRORIDE RECEIPT")
	pdf.Ln(12)

	amount := "free ride"
	if r.CostPerSeat != nil {
		amount = utils.FormatINR(*r.CostPerSeat)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No  : RCP-%s", shortID(b.ID)),
		fmt.Sprintf("Booking     : %s", b.ID),
		fmt.Sprintf("Buddy       : %s", b.BuddyID),
		fmt.Sprintf("Rider       : %s", b.RiderID),
		fmt.Sprintf("Route       : %s -> %s", r.StartPoint, r.Destination),
		fmt.Sprintf("Departs     : %s on %s", r.Timing, strings.Join(r.Days, ", ")),
		fmt.Sprintf("Amount      : %s per seat", amount),
		fmt.Sprintf("Status      : %s", b.Status),
		fmt.Sprintf("Issued      : %s", time.Now().UTC().Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt covers one seat on the shared commute above. Settle the amount directly with the rider.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render receipt failed", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", shortID(b.ID)), nil
}

func buildManifestPDF(r models.Route, bookings []models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("BroRide Manifest", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ROUTE MANIFEST")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Route   : %s -> %s at %s (%s)", r.StartPoint, r.Destination, r.Timing, strings.Join(r.Days, ", ")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Seats   : %d of %d available, status %s", r.AvailableSeats, r.Capacity, r.Status))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 7, "Booking", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 7, "Buddy", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Requested", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, b := range bookings {
		pdf.CellFormat(70, 7, shortID(b.ID), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, b.BuddyID, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, string(b.Status), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, b.RequestedAt.Format("2006-01-02 15:04"), "1", 1, "", false, 0, "")
	}
	if len(bookings) == 0 {
		pdf.CellFormat(190, 7, "no bookings yet", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render manifest failed", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("MANIFEST_%s.pdf", shortID(r.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
