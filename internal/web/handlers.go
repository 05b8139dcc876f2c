package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"poscounter/internal/cart"
	"poscounter/internal/catalog"
	"poscounter/internal/data"
	"poscounter/internal/logger"
	"poscounter/internal/middleware"
	"poscounter/internal/order"
	"poscounter/internal/session"
)

// lockSession fetches and locks the caller's session; the caller must Unlock.
func (s *Server) lockSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.Get(w, r)
	sess.Lock()
	return sess
}

// checkForm parses the posted form and validates its CSRF token.
func (s *Server) checkForm(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := r.ParseForm(); err != nil {
		logger.LogHTTPError(r, http.StatusBadRequest, err)
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return false
	}
	token := r.PostFormValue("csrf_token")
	if token == "" || !s.csrf.ValidateCSRFToken(token, sess.ID) {
		err := fmt.Errorf("missing or invalid CSRF token")
		logger.LogHTTPError(r, http.StatusForbidden, err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return false
	}
	return true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleIndex renders whichever page the session is on.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	if sess.Nav.Page() == session.History {
		s.renderHistory(w, r, sess)
		return
	}
	s.renderOrdering(w, sess)
}

func (s *Server) renderOrdering(w http.ResponseWriter, sess *session.Session) {
	items, err := s.catalog.Filter(sess.Mode, sess.Search)
	noResults := errors.Is(err, catalog.ErrNoSearchResults)

	render(w, "ordering", orderingPage{
		Title:     shopName,
		CSRFToken: s.csrf.GenerateCSRFToken(sess.ID),
		Mode:      sess.Mode,
		Modes:     catalog.Modes,
		Search:    sess.Search,
		Items:     items,
		NoResults: noResults,
		Lines:     sess.Cart.Lines(),
		Total:     sess.Cart.Total(),
		Flashes:   sess.TakeFlashes(),
		Receipt:   sess.TakeReceipt(),
	})
}

func (s *Server) renderHistory(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	view, err := s.viewer.Load(r.Context())
	if err != nil {
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		sess.AddFlash(session.FlashError, "Transaction history is unavailable right now. Please try again.")
	}

	render(w, "history", historyPage{
		Title:     shopName + " - History",
		CSRFToken: s.csrf.GenerateCSRFToken(sess.ID),
		View:      view,
		Flashes:   sess.TakeFlashes(),
	})
}

// handlePreferences stores the selected mode and search text.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	if !s.checkForm(w, r, sess) {
		return
	}

	if raw := r.PostFormValue("mode"); raw != "" {
		mode, err := catalog.ParseMode(raw)
		if err != nil {
			logger.LogHTTPError(r, http.StatusBadRequest, err)
			http.Error(w, "Unknown mode", http.StatusBadRequest)
			return
		}
		sess.Mode = mode
	}
	sess.Search = strings.TrimSpace(r.PostFormValue("q"))

	redirectHome(w, r)
}

type addRequest struct {
	name     string
	quantity int
}

// parseAddForm pairs the parallel item/qty fields. Blank quantities count
// as zero.
func parseAddForm(r *http.Request) ([]addRequest, error) {
	names := r.PostForm["item"]
	qtys := r.PostForm["qty"]
	if len(names) != len(qtys) {
		return nil, fmt.Errorf("got %d items but %d quantities", len(names), len(qtys))
	}

	out := make([]addRequest, 0, len(names))
	for i, name := range names {
		raw := strings.TrimSpace(qtys[i])
		qty := 0
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("quantity for %q is not a whole number: %q", name, raw)
			}
			qty = n
		}
		if qty < 0 || qty > cart.MaxLineQuantity {
			return nil, fmt.Errorf("%w: got %d for %q, allowed 0 to %d",
				cart.ErrInvalidQuantity, qty, name, cart.MaxLineQuantity)
		}
		out = append(out, addRequest{name: name, quantity: qty})
	}
	return out, nil
}

// handleAddToCart adds every positive quantity from the menu form.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	if !s.checkForm(w, r, sess) {
		return
	}

	mode, err := catalog.ParseMode(r.PostFormValue("mode"))
	if err != nil {
		logger.LogHTTPError(r, http.StatusBadRequest, err)
		http.Error(w, "Unknown mode", http.StatusBadRequest)
		return
	}

	reqs, err := parseAddForm(r)
	if err != nil {
		logger.LogHTTPError(r, http.StatusBadRequest, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Stage on a copy so a failing item leaves the session cart untouched.
	staged := sess.Cart.Clone()
	var flashes []string
	for _, req := range reqs {
		line, ok, err := staged.Add(s.catalog, req.name, req.quantity, mode)
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			logger.LogHTTPError(r, http.StatusBadRequest, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			http.Error(w, "Item is not on the menu", http.StatusInternalServerError)
			return
		case !ok:
			continue
		}
		logger.LogDebug("Session %s: %s (%s) now %d units, cost %d", sess.ID, line.ItemName, mode, line.Quantity, line.TotalCost)
		flashes = append(flashes,
			fmt.Sprintf("%d x %s added to cart for %s! (%d in cart)", req.quantity, req.name, mode, line.Quantity))
	}
	sess.Cart = staged

	for _, text := range flashes {
		sess.AddFlash(session.FlashSuccess, text)
	}
	if len(flashes) == 0 {
		sess.AddFlash(session.FlashInfo, "Enter a quantity above zero to add an item.")
	}

	redirectHome(w, r)
}

// handleCheckout persists the cart and keeps the receipt for display.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	if !s.checkForm(w, r, sess) {
		return
	}

	receipt, err := order.Checkout(r.Context(), sess.Cart, s.store, s.now(), s.location)
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		sess.AddFlash(session.FlashWarning, "Your cart is empty. Add some items to proceed.")
	case errors.Is(err, order.ErrPersistence):
		logger.LogHTTPError(r, http.StatusServiceUnavailable, err)
		sess.AddFlash(session.FlashError, "The order could not be saved. Your cart is unchanged, please try again.")
	case err != nil:
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		http.Error(w, "Checkout failed", http.StatusInternalServerError)
		return
	default:
		sess.LastReceipt = receipt
		sess.AddFlash(session.FlashSuccess, "Checkout complete!")
		logger.LogInfo("Session %s checked out %d lines", sess.ID, len(receipt.Lines))
	}

	redirectHome(w, r)
}

func (s *Server) handleViewHistory(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*session.Navigator).ViewHistory)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*session.Navigator).Back)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*session.Navigator) error) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	if !s.checkForm(w, r, sess) {
		return
	}
	if err := move(&sess.Nav); err != nil {
		logger.LogWarn("Session %s: %v", sess.ID, err)
		sess.AddFlash(session.FlashWarning, "That page is not available from here.")
	}
	redirectHome(w, r)
}

// cartResponse is the JSON shape of /api/cart.
type cartResponse struct {
	Lines []apiLine `json:"lines"`
	Total int64     `json:"total"`
}

type apiLine struct {
	cart.Line
	Mode string `json:"mode"`
}

func (s *Server) handleAPICart(w http.ResponseWriter, r *http.Request) {
	sess := s.lockSession(w, r)
	defer sess.Unlock()

	resp := cartResponse{Lines: []apiLine{}, Total: sess.Cart.Total()}
	for _, l := range sess.Cart.Lines() {
		resp.Lines = append(resp.Lines, apiLine{Line: l, Mode: l.Mode.String()})
	}
	middleware.WriteAPISuccess(w, r, resp)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewer.Load(r.Context())
	if err != nil {
		logger.LogHTTPError(r, http.StatusServiceUnavailable, err)
		middleware.WriteAPIError(w, r, http.StatusServiceUnavailable, "history_unavailable",
			"Transaction history is unavailable", "")
		return
	}

	records := make([]data.TransactionRecord, 0, len(view.Rows))
	for _, row := range view.Rows {
		records = append(records, row.TransactionRecord)
	}
	middleware.WriteAPISuccess(w, r, map[string]interface{}{
		"records":     records,
		"count":       view.Count,
		"grand_total": view.GrandTotal.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		logger.LogHTTPError(r, http.StatusServiceUnavailable, err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK %d records, menu loaded %s ago", n, s.catalog.CacheAge().Round(time.Second))
}
