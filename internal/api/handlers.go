package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/zeebo/xxh3"

	"realestate/internal/engine"
	"realestate/internal/models"
	"realestate/internal/render"
)

type Handler struct {
	engine atomic.Pointer[engine.Engine]
}

// NewHandler accepts a nil engine; routes answer 503 until SetEngine is
// called.
func NewHandler(eng *engine.Engine) *Handler {
	h := &Handler{}
	if eng != nil {
		h.engine.Store(eng)
	}
	return h
}

// SetEngine publishes a fully loaded engine to the live API.
func (h *Handler) SetEngine(eng *engine.Engine) {
	h.engine.Store(eng)
	log.Infof("API ready with %d datasets", len(eng.Registry().Datasets()))
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetPage, h.ready)

	api := e.Group("/api", h.ready)
	api.GET("/datasets", h.GetDatasets)
	api.GET("/selectors", h.GetSelectors)
	api.GET("/map", h.GetMap)
	api.GET("/ranking", h.GetRanking)
	api.GET("/trend", h.GetTrend)
	api.GET("/dashboard", h.GetDashboard)
	api.POST("/selection", h.PostSelection)

	charts := e.Group("/charts", h.ready)
	charts.GET("/map.png", h.GetMapPNG)
	charts.GET("/ranking.png", h.GetRankingPNG)
	charts.GET("/trend.png", h.GetTrendPNG)
}

func (h *Handler) ready(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.engine.Load() == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "datasets are still loading")
		}
		return next(c)
	}
}

// --- PARAMS ---

func getIntParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return v, nil
}

func checkDataset(eng *engine.Engine, ds models.DatasetID) error {
	if !eng.Has(ds) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown dataset %q", ds))
	}
	return nil
}

// defaultDataset falls back to the first loaded dataset when the usual
// default is not configured.
func defaultDataset(eng *engine.Engine) models.DatasetID {
	if ds := eng.Registry().Datasets(); !eng.Has(engine.DefaultDataset) && len(ds) > 0 {
		return ds[0]
	}
	return engine.DefaultDataset
}

// getSelectionParams reads an unresolved selection from the query string.
// Missing fields stay zero.
func getSelectionParams(c echo.Context, eng *engine.Engine) (models.Selection, error) {
	sel := models.Selection{
		Dataset: models.DatasetID(c.QueryParam("dataset")),
		Entity:  c.QueryParam("entity"),
	}
	if sel.Dataset == "" {
		sel.Dataset = defaultDataset(eng)
	}
	if err := checkDataset(eng, sel.Dataset); err != nil {
		return sel, err
	}

	var err error
	if sel.Year, err = getIntParam(c, "year"); err != nil {
		return sel, err
	}
	if sel.ResultCount, err = getIntParam(c, "limit"); err != nil {
		return sel, err
	}
	if sel.ResultCount < 0 {
		return sel, echo.NewHTTPError(http.StatusBadRequest, "limit must not be negative")
	}
	if raw := c.QueryParam("sort"); raw != "" {
		order, ok := engine.ParseSortOrder(strings.ToLower(raw))
		if !ok {
			return sel, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("sort must be ascending or descending, got %q", raw))
		}
		sel.SortOrder = order
	}
	return sel, nil
}

// --- RESPONSES ---

// respond writes body with an ETag derived from its content and honors
// If-None-Match.
func respond(c echo.Context, contentType string, body []byte) error {
	tag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", tag)
	if c.Request().Header.Get("If-None-Match") == tag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func respondJSON(c echo.Context, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return respond(c, echo.MIMEApplicationJSON, body)
}

func respondPNG(c echo.Context, draw func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return err
	}
	return respond(c, "image/png", buf.Bytes())
}

// --- HANDLERS ---

func (h *Handler) GetDatasets(c echo.Context) error {
	return respondJSON(c, h.engine.Load().Registry().Datasets())
}

func (h *Handler) GetSelectors(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	return respondJSON(c, eng.Selectors(sel.Dataset))
}

// GetMap projects the requested year as given; an absent year means the
// latest one.
func (h *Handler) GetMap(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	if sel.Year == 0 {
		sel.Year = eng.DefaultYear(sel.Dataset)
	}
	return respondJSON(c, eng.MapPoints(sel.Dataset, sel.Year))
}

func (h *Handler) GetRanking(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	if sel.Year == 0 {
		sel.Year = eng.DefaultYear(sel.Dataset)
	}
	if sel.SortOrder == "" {
		sel.SortOrder = engine.DefaultSortOrder
	}
	if sel.ResultCount == 0 {
		sel.ResultCount = engine.DefaultResultCount
	}
	return respondJSON(c, eng.RankedRows(sel.Dataset, sel.Year, sel.SortOrder, sel.ResultCount))
}

func (h *Handler) GetTrend(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	if sel.Entity == "" {
		sel.Entity, _ = eng.DefaultEntity(sel.Dataset)
	}
	return respondJSON(c, eng.TrendSeries(sel.Dataset, sel.Entity))
}

func (h *Handler) GetDashboard(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	return respondJSON(c, eng.Dashboard(sel))
}

type selectionRequest struct {
	Selection models.Selection `json:"selection"`
	Change    models.Change    `json:"change"`
}

// PostSelection applies a change to the caller's previous selection and
// returns only the parts it invalidated.
func (h *Handler) PostSelection(c echo.Context) error {
	eng := h.engine.Load()

	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Selection.Dataset == "" {
		req.Selection.Dataset = defaultDataset(eng)
	}
	if err := checkDataset(eng, req.Selection.Dataset); err != nil {
		return err
	}
	if req.Change.Dataset != nil {
		if err := checkDataset(eng, *req.Change.Dataset); err != nil {
			return err
		}
	}
	if req.Change.SortOrder != nil {
		order, ok := engine.ParseSortOrder(strings.ToLower(string(*req.Change.SortOrder)))
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("sort_order must be ascending or descending, got %q", *req.Change.SortOrder))
		}
		req.Change.SortOrder = &order
	}
	return respondJSON(c, eng.Update(req.Selection, req.Change))
}

func (h *Handler) GetPage(c echo.Context) error {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Page(&buf, eng.Dashboard(sel)); err != nil {
		return err
	}
	return respond(c, echo.MIMETextHTMLCharsetUTF8, buf.Bytes())
}

// Chart images always render the resolved selection.
func (h *Handler) resolved(c echo.Context) (*engine.Engine, models.Selection, error) {
	eng := h.engine.Load()
	sel, err := getSelectionParams(c, eng)
	if err != nil {
		return nil, sel, err
	}
	return eng, eng.Resolve(sel), nil
}

func (h *Handler) GetMapPNG(c echo.Context) error {
	eng, sel, err := h.resolved(c)
	if err != nil {
		return err
	}
	return respondPNG(c, func(buf *bytes.Buffer) error {
		return render.MapPNG(buf, eng.MapPoints(sel.Dataset, sel.Year))
	})
}

func (h *Handler) GetRankingPNG(c echo.Context) error {
	eng, sel, err := h.resolved(c)
	if err != nil {
		return err
	}
	return respondPNG(c, func(buf *bytes.Buffer) error {
		return render.BarPNG(buf, eng.RankedRows(sel.Dataset, sel.Year, sel.SortOrder, sel.ResultCount))
	})
}

func (h *Handler) GetTrendPNG(c echo.Context) error {
	eng, sel, err := h.resolved(c)
	if err != nil {
		return err
	}
	return respondPNG(c, func(buf *bytes.Buffer) error {
		return render.LinePNG(buf, eng.TrendSeries(sel.Dataset, sel.Entity))
	})
}
