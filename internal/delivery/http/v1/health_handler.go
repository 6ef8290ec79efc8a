package v1

import (
	"net/http"

	"truckzone-contact-api/internal/delivery/http/response"
	"truckzone-contact-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	r.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Health Check
// @Description  Reports whether SMTP is configured and which rate limit store is in use.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthStatus}
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response.Success(c, http.StatusOK, h.healthUC.Check(c.Request.Context()))
}
