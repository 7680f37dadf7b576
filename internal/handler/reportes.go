package handler

import (
	"bytes"
	"net/http"

	"distriverde/internal/apierror"
	"distriverde/internal/dto"
	"distriverde/internal/infra"
	"distriverde/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) Consolidado(c *gin.Context) {
	var filter dto.ConsolidadoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Consolidado(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando consolidado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsolidadoPDF streams the purchase list as PDF for printing at the market.
func (h *ReportesHandler) ConsolidadoPDF(c *gin.Context) {
	var filter dto.ConsolidadoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Consolidado(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando consolidado"))
		return
	}

	titulo := "Consolidado de compra"
	if filter.TipoCliente != "" {
		titulo += " - " + filter.TipoCliente
	}

	var buf bytes.Buffer
	if err := infra.WriteConsolidadoPDF(&buf, resp, titulo); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando PDF"))
		return
	}
	c.Header("Content-Disposition", `inline; filename="consolidado.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportesHandler) Deudores(c *gin.Context) {
	resp, err := h.svc.Deudores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando reporte de deudores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Huevos(c *gin.Context) {
	var filter dto.PeriodoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Huevos(c.Request.Context(), filter.PeriodDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando reporte de huevos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) PedidosConHuevos(c *gin.Context) {
	resp, err := h.svc.PedidosConHuevos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error listando pedidos con huevos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Negocio(c *gin.Context) {
	var filter dto.PeriodoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Negocio(c.Request.Context(), filter.PeriodDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error generando reporte de negocio"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) KPIs(c *gin.Context) {
	resp, err := h.svc.KPIs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error calculando KPIs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
