package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vivienda/server/config"
	"vivienda/server/internal/export"
	"vivienda/server/internal/regions"
)

// ListRegions returns the lookup table filtered by the region query value.
// An unknown region yields an empty list.
func (h *Handler) ListRegions(c *gin.Context) {
	selector := c.DefaultQuery("region", config.AllRegions)
	records := regions.Filter(h.session.Dataset().Regions, selector)

	if !regions.IsKnown(h.session.Dataset().Regions, selector) {
		h.logger.WithField("region", selector).Debug("Unknown region selector")
	}

	c.JSON(http.StatusOK, records)
}

// GetRegionNames returns the values accepted by the region selector
func (h *Handler) GetRegionNames(c *gin.Context) {
	c.JSON(http.StatusOK, regions.Selectors(h.session.Dataset().Regions))
}

// DownloadRegions sends the filtered lookup table as csv
func (h *Handler) DownloadRegions(c *gin.Context) {
	selector := c.DefaultQuery("region", config.AllRegions)
	h.download(c, "comunas.csv", "text/csv; charset=utf-8", func(w io.Writer) error {
		return export.RegionsCSV(w, regions.Filter(h.session.Dataset().Regions, selector))
	})
}
