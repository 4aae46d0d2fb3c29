package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_cart/storefront/internal/menu"
)

type MenuBrowser interface {
	Page(ctx context.Context, n int) (*menu.Page, error)
	Dish(ctx context.Context, id int64) (*menu.Entry, error)
}

type MenuHandler struct {
	menu    MenuBrowser
	timeout time.Duration
}

func NewMenuHandler(browser MenuBrowser, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		menu:    browser,
		timeout: timeout,
	}
}

func (h *MenuHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		page = n
	}

	resp, err := h.menu.Page(ctx, page)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

func (h *MenuHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dishID, ok := dishIDParam(ctx, w, r)
	if !ok {
		return
	}

	dish, err := h.menu.Dish(ctx, dishID)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, dish)
}

// dishIDParam reads {dish_id} from the path and writes a 400 when it is not
// a positive integer.
func dishIDParam(ctx context.Context, w http.ResponseWriter, r *http.Request) (int64, bool) {
	dishID, err := strconv.ParseInt(chi.URLParam(r, "dish_id"), 10, 64)
	if err != nil || dishID <= 0 {
		respondError(ctx, w, http.StatusBadRequest, "invalid_dish_id", "dish_id must be a positive integer")
		return 0, false
	}
	return dishID, true
}
