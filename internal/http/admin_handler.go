package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	d "github.com/fjod/go_cart/storefront/internal/domain"
)

type AdminPanel interface {
	Dishes(ctx context.Context) ([]d.Dish, error)
	CreateDish(ctx context.Context, in d.DishInput) (*d.Dish, error)
	DeleteDish(ctx context.Context, id int64) error
}

type AdminHandler struct {
	panel        AdminPanel
	timeout      time.Duration
	maxFormBytes int64
}

func NewAdminHandler(panel AdminPanel, timeout time.Duration, maxFormBytes int64) *AdminHandler {
	if maxFormBytes <= 0 {
		maxFormBytes = 10 << 20
	}
	return &AdminHandler{
		panel:        panel,
		timeout:      timeout,
		maxFormBytes: maxFormBytes,
	}
}

func (h *AdminHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dishes, err := h.panel.Dishes(ctx)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]interface{}{"dishes": dishes})
}

// CreateDish takes a multipart form with name, description, price and an
// image file, the same shape the menu service accepts.
func (h *AdminHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "expected multipart form")
		return
	}

	in := d.DishInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid_price", "price must be a decimal number")
			return
		}
		in.Price = price
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid_image", "could not read image")
			return
		}
		in.Image = data
		in.ImageName = header.Filename
	}

	dish, err := h.panel.CreateDish(ctx, in)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, dish)
}

func (h *AdminHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dishID, ok := dishIDParam(ctx, w, r)
	if !ok {
		return
	}

	if err := h.panel.DeleteDish(ctx, dishID); err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
