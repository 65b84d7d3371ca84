package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClientType clasifica al cliente del catálogo
type ClientType string

const (
	ClientTypePerson  ClientType = "person"
	ClientTypeCompany ClientType = "company"
	// ClientTypePackage portador: compra créditos en bloque que luego
	// se consumen en favor de clientes finales
	ClientTypePackage ClientType = "package"
)

// Client cliente del catálogo (solo lectura desde este servicio;
// la administración del catálogo es de otro sistema)
type Client struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Type      ClientType `json:"type"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsCarrier indica si el cliente es un portador de paquetes
func (c *Client) IsCarrier() bool {
	return c.Type == ClientTypePackage
}
