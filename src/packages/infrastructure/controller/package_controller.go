package controller

import (
	"log"
	"net/http"

	"sales/src/packages/application"
	"sales/src/packages/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PackageController maneja las consultas HTTP sobre paquetes.
// Los paquetes se crean y mutan solo a través de ventas; acá hay lecturas.
type PackageController struct {
	ledger *application.Ledger
}

// NewPackageController crea una nueva instancia del controlador
func NewPackageController(ledger *application.Ledger) *PackageController {
	return &PackageController{ledger: ledger}
}

// RegisterRoutes registra las rutas del controlador
func (c *PackageController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/packages/:package_id", c.GetPackage)
	router.GET("/clients/:client_id/packages", c.ListClientPackages)

	log.Println("Rutas Package disponibles:")
	log.Println("  GET    /api/v1/packages/:package_id")
	log.Println("  GET    /api/v1/clients/:client_id/packages")
}

// GetPackage devuelve el estado de cuenta de un paquete
func (c *PackageController) GetPackage(ctx *gin.Context) {
	packageID, err := uuid.Parse(ctx.Param("package_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package_id format"})
		return
	}

	pkg, err := c.ledger.Get(ctx.Request.Context(), packageID)
	if err != nil {
		if err == entity.ErrPackageNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, pkg)
}

// ListClientPackages devuelve los paquetes de un portador
func (c *PackageController) ListClientPackages(ctx *gin.Context) {
	clientID, err := uuid.Parse(ctx.Param("client_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client_id format"})
		return
	}

	packages, err := c.ledger.ListByClient(ctx.Request.Context(), clientID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": packages, "total_count": len(packages)})
}
