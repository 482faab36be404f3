package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/services"
)

func ListAreas(c *gin.Context) {
	RespondOK(c, gin.H{"areas": services.ListAreas()})
}
