package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"venture-desk/internal/vc"
)

// VCHandler sirve el dataset filtrado de inversores.
type VCHandler struct {
	logger  *zap.Logger
	dataset *vc.Dataset
}

// NewVCHandler crea una instancia de VCHandler sobre el dataset cargado al inicio.
func NewVCHandler(logger *zap.Logger, dataset *vc.Dataset) *VCHandler {
	return &VCHandler{
		logger:  logger,
		dataset: dataset,
	}
}

// List maneja GET /vcs. Los inputs invalidos se coercen, nunca son error.
func (h *VCHandler) List(c *gin.Context) {
	criteria := vc.ParseQuery(c.Request.URL.Query())

	matched := vc.Filter(h.dataset.Records, criteria)
	matched = vc.Sample(matched, criteria.Percentage)

	h.logger.Info("vc search",
		zap.Int("matched", len(matched)),
		zap.Float64("percentage", criteria.Percentage),
	)

	results := make([]map[string]any, 0, len(matched))
	for _, record := range matched {
		results = append(results, record.Document(h.dataset.Columns))
	}

	c.JSON(http.StatusOK, results)
}
