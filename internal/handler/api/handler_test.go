package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	"AstroChart/internal/repository"
	"AstroChart/internal/service/ratelimit"
	xlogger "AstroChart/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type stubCharts struct {
	err error
}

func (s stubCharts) Calculate(_ context.Context, in models.BirthDataInput) (*models.NatalChart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.NatalChart{ID: "chart-" + in.PlaceID, HouseSystem: "Placidus"}, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(_ context.Context, req models.AnalysisRequest) (models.NatalChartAnalysis, error) {
	if _, ok := req.ChartData.PlanetaryPositions["Sun"]; !ok {
		return models.NatalChartAnalysis{}, models.ErrMissingBody
	}
	return models.NatalChartAnalysis{Introduction: models.AnalysisSection{Title: "Introduction", Content: "Hi"}}, nil
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestEcho(charts ChartService, rl *ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	l := xlogger.Nop()
	NewChartsEchoHandler(l, charts, stubAnalyzer{}, repository.NoopArchive{}, rl).RegisterRoutes(e)
	NewAstroEchoHandler(l).RegisterRoutes(e)
	NewChartsWSHandler(l, charts).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

const validBirth = `{"year":1987,"month":4,"day":10,"hour":14,"minute":5,"placeId":"nyc"}`

func TestCalculateEndpoint(t *testing.T) {
	e := newTestEcho(stubCharts{}, nil)

	rec, env := do(t, e, http.MethodPost, "/api/charts", validBirth)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"id":"chart-nyc"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, e, http.MethodPost, "/api/charts", `{"year":1987,"month":13,"day":10,"placeId":"nyc"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for month 13, got %d", rec.Code)
	}
}

func TestCalculateEndpointMapsErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmtErr(domrepo.ErrPlaceNotFound), http.StatusBadRequest},
		{errors.New("ephemeris: connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		rec, _ := do(t, newTestEcho(stubCharts{err: tt.err}, nil), http.MethodPost, "/api/charts", validBirth)
		if rec.Code != tt.want {
			t.Errorf("%v: got %d want %d", tt.err, rec.Code, tt.want)
		}
	}
}

func fmtErr(err error) error { return errors.Join(errors.New("geocode"), err) }

func TestGetUnknownChart(t *testing.T) {
	rec, _ := do(t, newTestEcho(stubCharts{}, nil), http.MethodGet, "/api/charts/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	e := newTestEcho(stubCharts{}, ratelimit.New(2, 0))
	body := `{"chartData":{"planetaryPositions":{"Sun":{"sign":"Leo","house":10}}}}`

	rec, env := do(t, e, http.MethodPost, "/api/charts/analysis", body)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"content":"Hi"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, e, http.MethodPost, "/api/charts/analysis", `{"chartData":{"planetaryPositions":{"Moon":{"sign":"Leo"}}}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing Sun, got %d", rec.Code)
	}

	rec, _ = do(t, e, http.MethodPost, "/api/charts/analysis", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the bucket empties, got %d", rec.Code)
	}
}

func TestAnalysisRequiresPositions(t *testing.T) {
	rec, _ := do(t, newTestEcho(stubCharts{}, nil), http.MethodPost, "/api/charts/analysis", `{"chartData":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSignEndpoint(t *testing.T) {
	e := newTestEcho(stubCharts{}, nil)

	rec, env := do(t, e, http.MethodGet, "/api/astro/sign?longitude=-30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got signResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Sign != "Pisces" || got.Degrees != 0 || got.Longitude != 330 {
		t.Fatalf("unexpected sign %+v", got)
	}

	for _, q := range []string{"abc", "NaN", "Inf", "-Inf", ""} {
		rec, _ = do(t, e, http.MethodGet, "/api/astro/sign?longitude="+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("longitude=%q: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestHouseEndpoint(t *testing.T) {
	e := newTestEcho(stubCharts{}, nil)
	body := `{"longitude":45,"cusps":[0,30,60,90,120,150,180,210,240,270,300,330]}`

	rec, env := do(t, e, http.MethodPost, "/api/astro/house", body)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"house":2`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, e, http.MethodPost, "/api/astro/house", `{"longitude":45,"cusps":[0,30]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short cusps, got %d", rec.Code)
	}
}

func TestAspectsEndpoint(t *testing.T) {
	e := newTestEcho(stubCharts{}, nil)
	body := `{"points":[{"name":"Sun","longitude":10},{"name":"Moon","longitude":190}]}`

	rec, env := do(t, e, http.MethodPost, "/api/astro/aspects", body)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"aspectType":"Opposition"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, e, http.MethodPost, "/api/astro/aspects", `{"points":[{"name":"Sun","longitude":10}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a single point, got %d", rec.Code)
	}
}

func TestChartsWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestEcho(stubCharts{}, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/charts"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(validBirth)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "chart" || f.Chart == nil || f.Chart.ID != "chart-nyc" {
		t.Fatalf("unexpected frame %+v", f)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"year":0}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	f = wsFrame{}
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "error" || f.Errors == nil {
		t.Fatalf("expected error frame, got %+v", f)
	}
}
