package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/services"
)

type AdminHandler struct {
	adminAnalyticsService services.AdminAnalyticsService
}

func NewAdminHandler(adminAnalyticsService services.AdminAnalyticsService) *AdminHandler {
	return &AdminHandler{adminAnalyticsService: adminAnalyticsService}
}

func (ah *AdminHandler) PlatformAnalytics(c *gin.Context) {
	report, err := ah.adminAnalyticsService.PlatformReport(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

func (ah *AdminHandler) AnalyticsByDiscipline(c *gin.Context) {
	stats, err := ah.adminAnalyticsService.ByDiscipline(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}
