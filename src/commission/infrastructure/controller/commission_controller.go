package controller

import (
	"log"
	"net/http"

	"sales/src/commission/domain/entity"
	"sales/src/commission/domain/port"
	"sales/src/shared/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommissionController maneja las peticiones HTTP sobre comisiones
type CommissionController struct {
	commissions port.CommissionRepository
}

// NewCommissionController crea una nueva instancia del controlador
func NewCommissionController(commissions port.CommissionRepository) *CommissionController {
	return &CommissionController{commissions: commissions}
}

// RegisterRoutes registra las rutas del controlador
func (c *CommissionController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sales/:sale_id/commission", c.GetBySale)
	router.PATCH("/commissions/:commission_id/pay", c.MarkPaid)

	log.Println("Rutas Commission disponibles:")
	log.Println("  GET    /api/v1/sales/:sale_id/commission")
	log.Println("  PATCH  /api/v1/commissions/:commission_id/pay")
}

// GetBySale devuelve la comisión devengada por una venta
func (c *CommissionController) GetBySale(ctx *gin.Context) {
	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	commission, err := c.commissions.FindBySaleID(ctx.Request.Context(), saleID)
	if err != nil {
		if err == entity.ErrCommissionNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Commission not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, commission)
}

// MarkPaid marca una comisión pending como pagada (solo admin)
func (c *CommissionController) MarkPaid(ctx *gin.Context) {
	if !middleware.IsAdmin(ctx) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "admin role is required"})
		return
	}

	commissionID, err := uuid.Parse(ctx.Param("commission_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid commission_id format"})
		return
	}

	if err := c.commissions.MarkPaid(ctx.Request.Context(), commissionID); err != nil {
		log.Printf("Error marking commission as paid: %v", err)
		switch err {
		case entity.ErrCommissionNotFound:
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Commission not found"})
		case entity.ErrCommissionNotPending:
			ctx.JSON(http.StatusConflict, gin.H{"error": "Commission is not pending"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"commission_id": commissionID, "status": "paid"})
}
