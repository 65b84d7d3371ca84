package saletype

// SaleType clasifica una venta según cómo se factura el servicio
type SaleType string

const (
	// Common venta minorista facturada directamente al cliente final
	Common SaleType = "common"
	// PackageIssue compra de créditos prepagos por parte de un portador (carrier)
	PackageIssue SaleType = "package_issue"
	// PackageConsumption uso de créditos previamente comprados en favor de un cliente final
	PackageConsumption SaleType = "package_consumption"
)

// Valid indica si el valor corresponde a un tipo de venta conocido
func (t SaleType) Valid() bool {
	switch t {
	case Common, PackageIssue, PackageConsumption:
		return true
	}
	return false
}

// UsesPackage indica si el tipo de venta involucra un portador de paquetes
func (t SaleType) UsesPackage() bool {
	return t == PackageIssue || t == PackageConsumption
}

// EarnsCommission indica si el tipo de venta genera comisión para el atendente.
// La emisión de paquetes es pass-through: el portador compra créditos, no hay
// prestación de servicio facturable, por lo tanto nunca comisiona.
func (t SaleType) EarnsCommission() bool {
	return t != PackageIssue
}
