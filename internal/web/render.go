package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"poscounter/internal/cart"
	"poscounter/internal/catalog"
	"poscounter/internal/history"
	"poscounter/internal/logger"
	"poscounter/internal/money"
	"poscounter/internal/order"
	"poscounter/internal/session"
)

// shopName heads every page.
const shopName = "Bro's Work"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money": money.Format,
	"inc":   func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

type orderingPage struct {
	Title     string
	CSRFToken string
	Mode      catalog.Mode
	Modes     []catalog.Mode
	Search    string
	Items     []catalog.MenuItem
	NoResults bool
	Lines     []cart.Line
	Total     int64
	Flashes   []session.Flash
	Receipt   *order.Receipt
}

type historyPage struct {
	Title     string
	CSRFToken string
	View      history.View
	Flashes   []session.Flash
}

// render executes name into a buffer first so a template error never
// leaves a half-written page.
func render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.LogError("Failed to render %s template: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
