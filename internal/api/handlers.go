package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"vivienda/server/config"
	"vivienda/server/internal/chart"
	"vivienda/server/internal/dataset"
	"vivienda/server/internal/export"
	"vivienda/server/internal/forecast"
	"vivienda/server/internal/models"
	"vivienda/server/internal/regions"
	"vivienda/server/internal/series"
)

type Handler struct {
	session *dataset.Session
	config  *config.Config
	logger  *logrus.Logger
}

type SelectorQuery struct {
	Horizon   string `form:"horizon"`
	Smoothing string `form:"smoothing"`
}

type kpiResponse struct {
	Available bool `json:"available"`
	*models.KPI
}

// NewHandler creates a handler serving the given session
func NewHandler(session *dataset.Session, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		session: session,
		config:  cfg,
		logger:  logger,
	}
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetInfo returns the table sizes and the source caption
func (h *Handler) GetInfo(c *gin.Context) {
	ds := h.session.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"observations":  len(ds.Series),
		"forecast_rows": len(ds.Forecast),
		"communes":      len(ds.Regions),
		"caption":       h.config.Data.SourceCaption,
	})
}

// GetSeries returns the enriched historical series
func (h *Handler) GetSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Enriched())
}

// GetKPIs returns the latest observation. A series without any defined value
// is reported as unavailable rather than as an error.
func (h *Handler) GetKPIs(c *gin.Context) {
	kpi, err := series.KPIs(h.session.Enriched())
	if errors.Is(err, models.ErrInsufficientData) {
		h.logger.WithError(err).Warn("No observations available for KPIs")
		c.JSON(http.StatusOK, kpiResponse{Available: false})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute KPIs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute KPIs"})
		return
	}

	c.JSON(http.StatusOK, kpiResponse{Available: true, KPI: &kpi})
}

// GetForecast returns the forecast split into realized and future rows
func (h *Handler) GetForecast(c *gin.Context) {
	realized, future := forecast.Split(h.session.Dataset().Forecast)
	c.JSON(http.StatusOK, gin.H{
		"realized": realized,
		"future":   future,
	})
}

// GetOverlay returns the points drawn for the selected horizon and smoothing
func (h *Handler) GetOverlay(c *gin.Context) {
	horizon, smoothing, ok := h.selectors(c)
	if !ok {
		return
	}

	points := forecast.Overlay(h.session.Enriched(), h.session.Dataset().Forecast, horizon, smoothing)
	c.JSON(http.StatusOK, gin.H{
		"horizon":   horizon.String(),
		"smoothing": smoothing.String(),
		"points":    points,
	})
}

// GetChart renders the overlay as a PNG
func (h *Handler) GetChart(c *gin.Context) {
	horizon, smoothing, ok := h.selectors(c)
	if !ok {
		return
	}

	points := forecast.Overlay(h.session.Enriched(), h.session.Dataset().Forecast, horizon, smoothing)
	opts := chart.DefaultOptions()
	if h.config.Chart.Title != "" {
		opts.Title = h.config.Chart.Title
	}
	if h.config.Chart.WidthInches > 0 && h.config.Chart.HeightInches > 0 {
		opts.Width = vg.Length(h.config.Chart.WidthInches) * vg.Inch
		opts.Height = vg.Length(h.config.Chart.HeightInches) * vg.Inch
	}

	var buf bytes.Buffer
	err := chart.Render(&buf, points, opts)
	if errors.Is(err, models.ErrInsufficientData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data to draw for the selected horizon"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to render chart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GetControls returns the selectors and their options
func (h *Handler) GetControls(c *gin.Context) {
	controls := append([]config.Control{}, config.SupportedControls...)
	controls = append(controls, config.RegionControl(regions.Names(h.session.Dataset().Regions)))
	c.JSON(http.StatusOK, controls)
}

// GetControl returns a single selector by name
func (h *Handler) GetControl(c *gin.Context) {
	name := c.Param("name")
	if name == "region" {
		c.JSON(http.StatusOK, config.RegionControl(regions.Names(h.session.Dataset().Regions)))
		return
	}

	control := config.GetControlByName(name)
	if control == nil {
		names := append(config.GetControlNames(), "region")
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "Unknown control",
			"controls": names,
		})
		return
	}
	c.JSON(http.StatusOK, control)
}

// DownloadForecast sends the forecast table as csv
func (h *Handler) DownloadForecast(c *gin.Context) {
	h.download(c, "forecast.csv", "text/csv; charset=utf-8", func(w io.Writer) error {
		return export.ForecastCSV(w, h.session.Dataset().Forecast)
	})
}

// DownloadSeries sends the enriched series as csv
func (h *Handler) DownloadSeries(c *gin.Context) {
	h.download(c, "serie_vivienda_enriquecida.csv", "text/csv; charset=utf-8", func(w io.Writer) error {
		return export.EnrichedCSV(w, h.session.Enriched())
	})
}

// DownloadWorkbook sends the series and forecast as an xlsx workbook
func (h *Handler) DownloadWorkbook(c *gin.Context) {
	h.download(c, "indicador_vivienda.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(w io.Writer) error {
		return export.Workbook(w, h.session.Enriched(), h.session.Dataset().Forecast)
	})
}

// Reload re-reads the data sources if they changed on disk
func (h *Handler) Reload(c *gin.Context) {
	changed, err := h.session.Reload()
	if errors.Is(err, models.ErrDataUnavailable) {
		h.logger.WithError(err).Error("Data sources unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reloaded": changed})
}

// selectors parses the horizon and smoothing query values and writes a 400
// response when either is unknown.
func (h *Handler) selectors(c *gin.Context) (models.Horizon, models.Smoothing, bool) {
	var q SelectorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return 0, 0, false
	}

	horizon, err := models.ParseHorizon(q.Horizon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	smoothing, err := models.ParseSmoothing(q.Smoothing)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	return horizon, smoothing, true
}

// download renders an artifact fully before sending it so a failure can
// still be reported with a proper status.
func (h *Handler) download(c *gin.Context, filename, contentType string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.logger.WithError(err).WithField("file", filename).Error("Failed to build download")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build " + filename})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
