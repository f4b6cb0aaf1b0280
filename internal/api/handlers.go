package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seanloh/purchase-tracker/internal/model"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// purchaseResponse is the wire form of a purchase record.
type purchaseResponse struct {
	ID             int64  `json:"id"`
	SerialNumber   int    `json:"serial_number"`
	Date           string `json:"date"`
	TrackingNumber string `json:"tracking_number"`
	CompanyName    string `json:"company_name"`
	ItemName       string `json:"item_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCNY   string `json:"unit_price_cny"`
	UnitPriceSGD   string `json:"unit_price_sgd"`
	ConversionRate string `json:"conversion_rate"`
	ExportStatus   string `json:"export_status"`
	OrderID        string `json:"order_id"`
	CreatedAt      string `json:"created_at"`
}

func toPurchaseResponse(p *model.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:             p.ID,
		SerialNumber:   p.SerialNumber,
		Date:           p.Date.Format("2006-01-02"),
		TrackingNumber: p.TrackingNumber,
		CompanyName:    p.CompanyName,
		ItemName:       p.ItemName,
		Quantity:       p.Quantity,
		UnitPriceCNY:   p.UnitPriceCNY.StringFixed(2),
		UnitPriceSGD:   p.UnitPriceSGD.StringFixed(2),
		ConversionRate: p.ConversionRate.String(),
		ExportStatus:   p.ExportStatus,
		OrderID:        p.OrderID,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// listPurchases handles GET /api/purchases with pagination, an optional
// item name search, and an optional date range.
func (s *Server) listPurchases(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	from := c.Query("from")
	to := c.Query("to")
	if from != "" || to != "" {
		return s.listByDateRange(c, from, to)
	}

	purchases, err := s.store.ListPurchases(c.Context(), storage.ListOptions{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"purchases": toPurchaseResponses(purchases),
		"count":     len(purchases),
	})
}

func (s *Server) listByDateRange(c *fiber.Ctx, from, to string) error {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid from date %q", from))
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid to date %q", to))
	}

	purchases, err := s.store.GetPurchasesByDateRange(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"purchases": toPurchaseResponses(purchases),
		"count":     len(purchases),
	})
}

// getPurchase handles GET /api/purchases/:id.
func (s *Server) getPurchase(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid purchase id")
	}

	p, err := s.store.GetPurchase(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(toPurchaseResponse(p))
}

// getSummary handles GET /api/purchases/stats/summary.
func (s *Server) getSummary(c *fiber.Ctx) error {
	summary, err := s.store.GetSummary(c.Context())
	if err != nil {
		return err
	}

	resp := fiber.Map{
		"total_purchases": summary.TotalPurchases,
		"total_items":     summary.TotalItems,
		"total_cny":       summary.TotalCNY.StringFixed(2),
		"total_sgd":       summary.TotalSGD.StringFixed(2),
		"average_price":   summary.AveragePrice.StringFixed(2),
	}
	if !summary.EarliestDate.IsZero() {
		resp["earliest_date"] = summary.EarliestDate.Format("2006-01-02")
		resp["latest_date"] = summary.LatestDate.Format("2006-01-02")
	}
	return c.JSON(resp)
}

type importRequest struct {
	Path string `json:"path"`
}

// importCSV handles POST /api/purchases/import. The body names a CSV file
// on the server's filesystem; the response carries the persisted count.
func (s *Server) importCSV(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "body must include a csv path")
	}

	count, err := s.importer.ImportFile(c.Context(), req.Path)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("import failed: %v", err))
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully imported %d purchases", count),
		"count":   count,
	})
}

func toPurchaseResponses(purchases []model.Purchase) []purchaseResponse {
	out := make([]purchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, toPurchaseResponse(&purchases[i]))
	}
	return out
}
