package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FareSentinel/internal/collector"
	"FareSentinel/internal/model"
	"FareSentinel/internal/notifier"

	"github.com/gin-gonic/gin"
)

type decoded struct {
	Comparison struct {
		Current model.MonthPriceResult `json:"current"`
		Next    model.MonthPriceResult `json:"next"`
		Verdict string                 `json:"verdict"`
	} `json:"comparison"`
	CurrentText string `json:"current_text"`
	VerdictText string `json:"verdict_text"`
	Report      string `json:"report"`
	Error       struct {
		Code string `json:"code"`
	} `json:"error"`
}

func serve(t *testing.T, h http.Handler, method, path, body string) (int, decoded) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out decoded
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(nil, nil, notifier.NewFormatter("Rs"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestCompare_CallerCells(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(nil, nil, notifier.NewFormatter("Rs"))
	body := `{"current":[{"label":"Jan 1","price":"₹900"},{"label":"Jan 2","price":"abc"},{"label":"Jan 3","price":"₹900"}],
		"next":[{"label":"Feb 1","price":"₹900"}]}`

	code, out := serve(t, r, http.MethodPost, "/api/v1/compare", body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out.Comparison.Current != model.Found("Jan 1", 900) {
		t.Errorf("unexpected current %+v", out.Comparison.Current)
	}
	if out.Comparison.Verdict != "EQUAL" {
		t.Errorf("expected EQUAL, got %s", out.Comparison.Verdict)
	}
	if out.CurrentText != "Jan 1 — Rs900" {
		t.Errorf("unexpected current text %q", out.CurrentText)
	}
}

func TestCompare_BadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(nil, nil, notifier.NewFormatter("Rs"))
	code, out := serve(t, r, http.MethodPost, "/api/v1/compare", "{")
	if code != http.StatusBadRequest || out.Error.Code != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %+v", code, out.Error)
	}
}

func TestComparison_FromSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &collector.MockSource{Months: []model.MonthGrid{
		{Title: "Oct", Cells: []model.PriceCell{{DateLabel: "Oct 21", RawPriceText: "₹4,870"}}},
		{Title: "Nov", Cells: nil},
	}}
	r := NewRouter(collector.NewCollector(src, nil, 0, ""), nil, notifier.NewFormatter("Rs"))

	code, out := serve(t, r, http.MethodGet, "/api/v1/comparison", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out.Comparison.Verdict != "INCOMPARABLE" || out.VerdictText != notifier.IncomparableText {
		t.Errorf("unexpected verdict %s / %q", out.Comparison.Verdict, out.VerdictText)
	}
	if !strings.Contains(out.Report, "- Next Month: "+notifier.NoPriceDataText) {
		t.Errorf("unexpected report:\n%s", out.Report)
	}
}

func TestComparison_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	code, out := serve(t, NewRouter(nil, nil, notifier.Formatter{}), http.MethodGet, "/api/v1/comparison", "")
	if code != http.StatusServiceUnavailable || out.Error.Code != "NO_SOURCE" {
		t.Errorf("expected 503 NO_SOURCE, got %d %+v", code, out.Error)
	}

	oneMonth := collector.NewCollector(&collector.MockSource{Months: []model.MonthGrid{{Title: "Oct"}}}, nil, 0, "")
	code, out = serve(t, NewRouter(oneMonth, nil, notifier.Formatter{}), http.MethodGet, "/api/v1/comparison", "")
	if code != http.StatusInternalServerError || out.Error.Code != "INVALID_MONTH_INDEX" {
		t.Errorf("expected 500 INVALID_MONTH_INDEX, got %d %+v", code, out.Error)
	}
}

func TestWithCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := WithCORS(NewRouter(nil, nil, notifier.Formatter{}), []string{"https://fares.example"})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://fares.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://fares.example" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}
