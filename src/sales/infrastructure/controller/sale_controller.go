package controller

import (
	"log"
	"net/http"
	"strconv"

	catalogEntity "sales/src/catalog/domain/entity"
	packagesEntity "sales/src/packages/domain/entity"
	pricingEntity "sales/src/pricing/domain/entity"
	"sales/src/sales/application/request"
	"sales/src/sales/application/usecase"
	"sales/src/sales/domain/entity"
	"sales/src/sales/domain/port"
	"sales/src/shared/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleController maneja las peticiones HTTP para ventas
type SaleController struct {
	createSaleUC  *usecase.CreateSaleUseCase
	updateSaleUC  *usecase.UpdateSaleUseCase
	confirmSaleUC *usecase.ConfirmSaleUseCase
	cancelSaleUC  *usecase.CancelSaleUseCase
	refundSaleUC  *usecase.RefundSaleUseCase
	getSaleUC     *usecase.GetSaleUseCase
	listSalesUC   *usecase.ListSalesUseCase
	refundRepo    port.RefundRepository
}

// NewSaleController crea una nueva instancia del controlador
func NewSaleController(
	createSaleUC *usecase.CreateSaleUseCase,
	updateSaleUC *usecase.UpdateSaleUseCase,
	confirmSaleUC *usecase.ConfirmSaleUseCase,
	cancelSaleUC *usecase.CancelSaleUseCase,
	refundSaleUC *usecase.RefundSaleUseCase,
	getSaleUC *usecase.GetSaleUseCase,
	listSalesUC *usecase.ListSalesUseCase,
	refundRepo port.RefundRepository,
) *SaleController {
	return &SaleController{
		createSaleUC:  createSaleUC,
		updateSaleUC:  updateSaleUC,
		confirmSaleUC: confirmSaleUC,
		cancelSaleUC:  cancelSaleUC,
		refundSaleUC:  refundSaleUC,
		getSaleUC:     getSaleUC,
		listSalesUC:   listSalesUC,
		refundRepo:    refundRepo,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *SaleController) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.GET("", c.ListSales)
		sales.GET("/:sale_id", c.GetSale)
		sales.GET("/:sale_id/refunds", c.ListRefunds)
		sales.POST("", c.CreateSale)
		sales.PUT("/:sale_id", c.UpdateSale)
		sales.POST("/:sale_id/confirm", c.ConfirmSale)
		sales.POST("/:sale_id/cancel", c.CancelSale)
		sales.POST("/:sale_id/refund", c.RefundSale)
	}

	log.Println("Rutas Sale disponibles:")
	log.Println("  GET    /api/v1/sales")
	log.Println("  GET    /api/v1/sales/:sale_id")
	log.Println("  GET    /api/v1/sales/:sale_id/refunds")
	log.Println("  POST   /api/v1/sales")
	log.Println("  PUT    /api/v1/sales/:sale_id")
	log.Println("  POST   /api/v1/sales/:sale_id/confirm")
	log.Println("  POST   /api/v1/sales/:sale_id/cancel")
	log.Println("  POST   /api/v1/sales/:sale_id/refund")
}

// CreateSale maneja la creación de una venta (abierta o confirmada en el acto)
func (c *SaleController) CreateSale(ctx *gin.Context) {
	attendantID, ok := middleware.ActorFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authenticated attendant is required"})
		return
	}

	var req request.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sale, err := c.createSaleUC.Execute(ctx.Request.Context(), attendantID, &req)
	if err != nil {
		log.Printf("Error creating sale: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// UpdateSale reemplaza items y descuento general de una venta abierta
func (c *SaleController) UpdateSale(ctx *gin.Context) {
	attendantID, ok := middleware.ActorFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authenticated attendant is required"})
		return
	}

	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	var req request.UpdateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sale, err := c.updateSaleUC.Execute(ctx.Request.Context(), saleID, attendantID, middleware.IsAdmin(ctx), &req)
	if err != nil {
		log.Printf("Error updating sale: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sale)
}

// ConfirmSale maneja la transición open → confirmed
func (c *SaleController) ConfirmSale(ctx *gin.Context) {
	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	sale, err := c.confirmSaleUC.Execute(ctx.Request.Context(), saleID)
	if err != nil {
		log.Printf("Error confirming sale: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sale)
}

// CancelSale maneja la cancelación; repetirla es un no-op exitoso
func (c *SaleController) CancelSale(ctx *gin.Context) {
	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	if err := c.cancelSaleUC.Execute(ctx.Request.Context(), saleID); err != nil {
		log.Printf("Error cancelling sale: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"sale_id": saleID, "status": "cancelled"})
}

// RefundSale registra una devolución parcial sobre una venta confirmada
func (c *SaleController) RefundSale(ctx *gin.Context) {
	attendantID, ok := middleware.ActorFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authenticated attendant is required"})
		return
	}

	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	var req request.RefundSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	refund, err := c.refundSaleUC.Execute(ctx.Request.Context(), saleID, attendantID, &req)
	if err != nil {
		log.Printf("Error refunding sale: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, refund)
}

// GetSale devuelve una venta con sus items
func (c *SaleController) GetSale(ctx *gin.Context) {
	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	sale, err := c.getSaleUC.Execute(ctx.Request.Context(), saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sale)
}

// ListRefunds devuelve las devoluciones registradas contra una venta
func (c *SaleController) ListRefunds(ctx *gin.Context) {
	saleID, err := uuid.Parse(ctx.Param("sale_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_id format"})
		return
	}

	refunds, err := c.refundRepo.ListBySale(ctx.Request.Context(), saleID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": refunds, "total_count": len(refunds)})
}

// ListSales lista ventas con filtros y paginación
func (c *SaleController) ListSales(ctx *gin.Context) {
	query := usecase.ListSalesQuery{
		SaleType: ctx.Query("sale_type"),
		Status:   ctx.Query("status"),
		DateFrom: ctx.Query("date_from"),
		DateTo:   ctx.Query("date_to"),
	}

	if raw := ctx.Query("attendant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendant_id format"})
			return
		}
		query.AttendantID = &id
	}
	if raw := ctx.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client_id format"})
			return
		}
		query.ClientID = &id
	}

	query.Page = intQuery(ctx, "page", 1)
	query.PageSize = intQuery(ctx, "page_size", 20)

	result, err := c.listSalesUC.Execute(ctx.Request.Context(), query)
	if err != nil {
		log.Printf("Error listing sales: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func intQuery(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// respondError mapea los errores de dominio al status HTTP del contrato:
// 404 inexistente, 400 request inválida, 403 sin permiso, 409 conflicto de
// estado o de saldo, 500 el resto
func respondError(ctx *gin.Context, err error) {
	switch err {
	case entity.ErrSaleNotFound,
		catalogEntity.ErrClientNotFound,
		pricingEntity.ErrServiceNotFound,
		packagesEntity.ErrPackageNotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case entity.ErrForbidden:
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case entity.ErrSaleNotOpen,
		entity.ErrSaleNotConfirmed,
		entity.ErrSaleAlreadyCancelled,
		entity.ErrRefundExceedsTotal,
		packagesEntity.ErrInsufficientBalance,
		packagesEntity.ErrPackageInactive,
		packagesEntity.ErrPackageExpired,
		packagesEntity.ErrPackageAlreadyConsumed:
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case entity.ErrInvalidSaleType,
		entity.ErrInvalidSaleStatus,
		entity.ErrSaleMustHaveItems,
		entity.ErrSingleItemRequired,
		entity.ErrClientRequired,
		entity.ErrCarrierRequired,
		entity.ErrClientIsCarrier,
		entity.ErrClientIsNotCarrier,
		entity.ErrPackageIDRequired,
		entity.ErrPaymentMethodRequired,
		entity.ErrInvalidSaleDate,
		entity.ErrInvalidExpiryDate,
		entity.ErrProductNameRequired,
		entity.ErrInvalidItemQuantity,
		entity.ErrInvalidItemPrice,
		entity.ErrUnitPriceRequired,
		entity.ErrInvalidDiscount,
		entity.ErrInvalidRefundAmount,
		entity.ErrRefundReasonRequired,
		catalogEntity.ErrClientInactive,
		catalogEntity.ErrUnknownPaymentMethod,
		pricingEntity.ErrServiceInactive,
		pricingEntity.ErrNoPricingConfigured,
		pricingEntity.ErrInvalidQuantity,
		packagesEntity.ErrPackageOwnershipMismatch,
		packagesEntity.ErrInvalidConsumption:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
	}
}
