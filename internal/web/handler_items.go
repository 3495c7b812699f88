package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/pantryinv/internal/domain"
	"github.com/vbonduro/pantryinv/internal/inventory"
	"github.com/vbonduro/pantryinv/internal/service"
)

const maxFieldLen = 200

// itemRow is one rendered line of the item list. Pos is the item's position in
// the full list, so actions on a filtered view still address the right item.
type itemRow struct {
	Pos      int
	Category string
	Text     string
	Expired  bool
}

// formatRow renders an item as "name (category) - quantity", with ", Expired"
// appended when the item expired before today.
func formatRow(item *domain.Item, today time.Time) string {
	text := fmt.Sprintf("%s (%s) - %d", item.Name, item.Category, item.Quantity)
	if item.ExpiredAsOf(today) {
		text += ", Expired"
	}
	return text
}

func buildRows(entries []service.Entry, today time.Time) []itemRow {
	rows := make([]itemRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, itemRow{
			Pos:      e.Pos,
			Category: e.Item.Category,
			Text:     formatRow(&e.Item, today),
			Expired:  e.Item.ExpiredAsOf(today),
		})
	}
	return rows
}

// itemList is the data for the item_list partial. ClearFlash adds an
// out-of-band swap that empties #flash after a successful action.
type itemList struct {
	Rows       []itemRow
	ClearFlash bool
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	heading := "Home"
	category := ""
	var shown []service.Entry
	if r.URL.Query().Has("category") {
		category = r.URL.Query().Get("category")
		shown = s.service.FilterByCategory(ctx, category)
		heading = fmt.Sprintf("Category: %s", category)
	} else {
		shown = s.service.ListItems(ctx)
	}
	s.renderItems(w, r, shown, heading, category, "items")
}

func (s *Server) handleListExpired(w http.ResponseWriter, r *http.Request) {
	s.renderItems(w, r, s.service.ListExpired(r.Context()), "Expired", "", "expired")
}

func (s *Server) renderItems(w http.ResponseWriter, r *http.Request, shown []service.Entry, heading, category, nav string) {
	rows := buildRows(shown, s.service.Today())

	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, http.StatusOK, "item_list", itemList{Rows: rows, ClearFlash: true}); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{
			"List":      itemList{Rows: rows},
			"Flash":     flash{},
			"Heading":   heading,
			"Category":  category,
			"Username":  username(r),
			"ActiveNav": nav,
		},
		"base.html", "pages/items.html", "partials/item_list.html", "partials/flash.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// renderList writes the full item list fragment.
func (s *Server) renderList(w http.ResponseWriter, r *http.Request, entries []service.Entry) {
	list := itemList{Rows: buildRows(entries, s.service.Today()), ClearFlash: true}
	if err := s.renderPartial(w, http.StatusOK, "item_list", list); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func username(r *http.Request) string {
	if session := sessionFrom(r.Context()); session != nil {
		return session.Username
	}
	return ""
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	category := strings.TrimSpace(r.FormValue("category"))
	if len(name) > maxFieldLen || len(category) > maxFieldLen {
		s.renderError(w, http.StatusBadRequest, "Name or category is too long.")
		return
	}

	// A blank or non-numeric quantity counts as missing input.
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		quantity = 0
	}

	var expiresOn *time.Time
	if raw := strings.TrimSpace(r.FormValue("expires_on")); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			s.renderError(w, http.StatusBadRequest, "Expiration date must be YYYY-MM-DD.")
			return
		}
		expiresOn = &d
	}

	item, err := s.service.AddItem(r.Context(), name, category, quantity, expiresOn)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "Failed to add item.")
		s.logger.Error("add item failed", "error", err)
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.renderList(w, r, s.service.ListItems(r.Context()))
}

func (s *Server) handleDispenseItem(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePos(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid item position.")
		return
	}

	if _, err := s.service.DispenseAt(r.Context(), pos); err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			s.renderError(w, http.StatusNotFound, "That item is no longer in the list.")
		case errors.Is(err, inventory.ErrOutOfStock):
			s.renderError(w, http.StatusConflict, "Product is out of stock.")
		default:
			s.renderError(w, http.StatusInternalServerError, "Failed to dispense item.")
			s.logger.Error("dispense item failed", "pos", pos, "error", err)
		}
		return
	}

	s.renderList(w, r, s.service.ListItems(r.Context()))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePos(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid item position.")
		return
	}

	if err := s.service.RemoveAt(r.Context(), pos); err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, "That item is no longer in the list.")
			return
		}
		s.renderError(w, http.StatusInternalServerError, "Failed to remove item.")
		s.logger.Error("remove item failed", "pos", pos, "error", err)
		return
	}

	s.renderList(w, r, s.service.ListItems(r.Context()))
}

type categoryCountJSON struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
}

// chartBar is one bar of the category chart. Width is a percentage of the
// largest category.
type chartBar struct {
	Category string
	Items    int
	Width    int
}

func chartBars(counts []domain.CategoryCount) []chartBar {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Items)
	}
	bars := make([]chartBar, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chartBar{Category: c.Category, Items: c.Items, Width: c.Items * 100 / peak})
	}
	return bars
}

// handleChart shows how many items each category holds. ?format=json returns
// the raw counts.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	counts := s.service.CategoryCounts(r.Context())

	if r.URL.Query().Get("format") == "json" {
		out := make([]categoryCountJSON, 0, len(counts))
		for _, c := range counts {
			out = append(out, categoryCountJSON{Category: c.Category, Items: c.Items})
		}
		s.writeJSON(w, out)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{
			"Bars":      chartBars(counts),
			"Username":  username(r),
			"ActiveNav": "chart",
		},
		"base.html", "pages/chart.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// parsePos extracts the {pos} path variable.
func parsePos(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("pos"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}
