package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/middleware"
	"github.com/dinehub/api/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ReportStore defines the database methods needed by reporting handlers.
// Satisfied by *database.Queries.
type ReportStore interface {
	ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

// ReportHandler serves the daily income report and its exports.
type ReportHandler struct {
	store ReportStore
	loc   *time.Location
}

func NewReportHandler(store ReportStore, loc *time.Location) *ReportHandler {
	return &ReportHandler{store: store, loc: loc}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/report/daily-income", h.DailyIncome)
	r.Get("/report/daily-income/csv", h.DailyIncomeCSV)
	r.Get("/report/daily-income/pdf", h.DailyIncomePDF)
}

// --- Response types ---

type dailyReportResponse struct {
	Date           string          `json:"date"`
	TotalOrders    int             `json:"totalOrders"`
	TotalIncome    string          `json:"totalIncome"`
	TotalSubtotal  string          `json:"totalSubtotal"`
	TotalTax       string          `json:"totalTax"`
	OrdersByType   map[string]int  `json:"ordersByType"`
	PaymentMethods map[string]int  `json:"paymentMethods"`
	Orders         []dailyOrderRow `json:"orders"`
}

type dailyOrderRow struct {
	ID            uuid.UUID           `json:"id"`
	CustomerName  string              `json:"customerName"`
	OrderType     string              `json:"orderType"`
	Items         []orderItemResponse `json:"items"`
	Total         string              `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// --- Handlers ---

// DailyIncome handles GET /report/daily-income?date=YYYY-MM-DD.
func (h *ReportHandler) DailyIncome(w http.ResponseWriter, r *http.Request) {
	d, ok := h.buildDaily(w, r)
	if !ok {
		return
	}

	rows := make([]dailyOrderRow, len(d.Orders))
	for i, o := range d.Orders {
		items := make([]orderItemResponse, len(o.Items))
		for j, it := range o.Items {
			image := it.Image
			items[j] = orderItemResponse{
				Name:     it.Name,
				Price:    it.Price.StringFixed(2),
				Quantity: it.Quantity,
				Image:    &image,
			}
		}
		rows[i] = dailyOrderRow{
			ID:            o.ID,
			CustomerName:  o.CustomerName,
			OrderType:     o.OrderType,
			Items:         items,
			Total:         o.Total.StringFixed(2),
			PaymentMethod: o.PaymentMethod,
			CreatedAt:     o.CreatedAt,
		}
	}

	writeData(w, http.StatusOK, dailyReportResponse{
		Date:           d.Date,
		TotalOrders:    d.TotalOrders,
		TotalIncome:    d.TotalIncome.StringFixed(2),
		TotalSubtotal:  d.TotalSubtotal.StringFixed(2),
		TotalTax:       d.TotalTax.StringFixed(2),
		OrdersByType:   d.OrdersByType,
		PaymentMethods: d.PaymentMethods,
		Orders:         rows,
	})
}

// DailyIncomeCSV handles GET /report/daily-income/csv.
func (h *ReportHandler) DailyIncomeCSV(w http.ResponseWriter, r *http.Request) {
	d, ok := h.buildDaily(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=daily-income-%s.csv", d.Date))
	if err := report.WriteCSV(w, d); err != nil {
		log.Printf("ERROR: write csv report: %v", err)
	}
}

// DailyIncomePDF handles GET /report/daily-income/pdf.
func (h *ReportHandler) DailyIncomePDF(w http.ResponseWriter, r *http.Request) {
	d, ok := h.buildDaily(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=daily-income-%s.pdf", d.Date))
	if err := report.WritePDF(w, d); err != nil {
		log.Printf("ERROR: write pdf report: %v", err)
	}
}

// --- Helpers ---

// buildDaily loads the restaurant's orders and folds them into the daily
// aggregate for the requested date (defaulting to today in the report
// timezone). It writes the error response itself and reports ok=false.
func (h *ReportHandler) buildDaily(w http.ResponseWriter, r *http.Request) (report.Daily, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return report.Daily{}, false
	}

	date := time.Now().In(h.loc)
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return report.Daily{}, false
		}
		date = parsed
	}

	orders, err := h.store.ListOrdersByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list orders for report: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return report.Daily{}, false
	}

	reportOrders := make([]report.Order, len(orders))
	for i, o := range orders {
		items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order items for report: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return report.Daily{}, false
		}
		reportOrders[i] = toReportOrder(o, items)
	}

	return report.BuildDaily(reportOrders, date, h.loc), true
}

func toReportOrder(o database.Order, items []database.OrderItem) report.Order {
	ro := report.Order{
		ID:            o.ID,
		CustomerName:  o.CustomerName.String,
		OrderType:     o.OrderType,
		TableNumber:   o.TableNumber.String,
		Subtotal:      numericToDecimal(o.Subtotal),
		Tax:           numericToDecimal(o.Tax),
		Total:         numericToDecimal(o.Total),
		PaymentMethod: o.PaymentMethod.String,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
	ro.Items = make([]report.Item, len(items))
	for i, it := range items {
		ro.Items[i] = report.Item{
			Name:     it.Name,
			Price:    numericToDecimal(it.Price),
			Quantity: it.Quantity,
			Image:    it.Image.String,
		}
	}
	return ro
}
