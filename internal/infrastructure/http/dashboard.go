package httpserver

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"otcrates-service/internal/domain"
	"otcrates-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html.tmpl").ParseFS(templatesFS, "templates/dashboard.html.tmpl"))

const timestampLayout = "2006-01-02 15:04:05"

type dashboardView struct {
	BuyPrice       string
	SellPrice      string
	IsBuy          bool
	Direction      string
	Amount         string
	InputCurrency  string
	OutputCurrency string
	Result         string
	LastRefreshed  string
	Live           bool
	FallbackReason string
	Summary        string
	Sources        []domain.Source
	RefreshSeconds int
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	amount := r.URL.Query().Get("amount")
	if amount == "" {
		amount = defaultAmount
	}
	req := conversionRequestFrom(r.URL.Query().Get("direction"), amount, defaultAmount)
	v, res := s.svc.Convert(req)
	q := domain.NewQuote(v.Snapshot)

	view := dashboardView{
		BuyPrice:       q.BuyDisplay(),
		SellPrice:      q.SellDisplay(),
		IsBuy:          req.Direction == domain.DirectionBuy,
		Direction:      string(req.Direction),
		Amount:         amount,
		InputCurrency:  req.Direction.InputCurrency(),
		OutputCurrency: req.Direction.OutputCurrency(),
		Result:         res.Display(),
		LastRefreshed:  "---",
		Live:           v.Snapshot.IsLive(),
		FallbackReason: string(v.Snapshot.FallbackReason),
		Summary:        v.Snapshot.Summary,
		Sources:        v.Snapshot.Sources,
		RefreshSeconds: int(s.pageRefresh.Seconds()),
	}
	if v.Seq > 0 {
		view.LastRefreshed = v.Snapshot.FetchedAt.In(s.zone).Format(timestampLayout)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		logx.WithFields(r.Context()).Error("dashboard.render_failed", zap.Error(err))
	}
}

// RefreshFromPage handles the dashboard's refresh button and sends the
// browser back to the page with its calculator state.
func (s *Server) RefreshFromPage(w http.ResponseWriter, r *http.Request) {
	if !s.allowRefresh() {
		logx.WithFields(r.Context()).Info("refresh.rate_limited")
	} else if _, err := s.svc.RequestRefresh(r.Context(), nil); err != nil {
		logx.WithFields(r.Context()).Warn("refresh.request_failed", zap.Error(err))
	}
	back := url.Values{}
	if d := r.FormValue("direction"); d != "" {
		back.Set("direction", string(domain.ParseDirection(d)))
	}
	if a := r.FormValue("amount"); a != "" {
		back.Set("amount", a)
	}
	target := "/"
	if len(back) > 0 {
		target += "?" + back.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
