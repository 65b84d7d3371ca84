package cache

import (
	"database/sql"
	"log"
	"sync"
)

// PaymentMethod representa un método de pago en el cache
type PaymentMethod struct {
	Code string
	Name string
}

// PaymentMethodCache cache en memoria de los métodos de pago activos.
// La creación de ventas valida el código contra este cache; el catálogo
// de métodos de pago se administra fuera de este servicio.
type PaymentMethodCache struct {
	methods map[string]PaymentMethod
	mu      sync.RWMutex
}

// NewPaymentMethodCache crea un nuevo cache de métodos de pago
func NewPaymentMethodCache() *PaymentMethodCache {
	return &PaymentMethodCache{
		methods: make(map[string]PaymentMethod),
	}
}

// LoadFromDB carga los métodos de pago activos desde la base de datos
func (c *PaymentMethodCache) LoadFromDB(db *sql.DB) error {
	log.Println("Cargando métodos de pago al cache...")

	query := `
		SELECT code, name
		FROM payment_methods
		WHERE is_active = true
	`

	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var pm PaymentMethod
		if err := rows.Scan(&pm.Code, &pm.Name); err != nil {
			log.Printf("Error scanning payment method: %v", err)
			continue
		}
		c.methods[pm.Code] = pm
		count++
	}

	log.Printf("✅ %d métodos de pago cargados en cache", count)
	return nil
}

// Seed carga métodos de pago directamente (tests / modo sin DB)
func (c *PaymentMethodCache) Seed(methods ...PaymentMethod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pm := range methods {
		c.methods[pm.Code] = pm
	}
}

// Valid indica si el código corresponde a un método de pago activo
func (c *PaymentMethodCache) Valid(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.methods[code]
	return ok
}

// GetName obtiene el nombre legible de un método de pago por código
func (c *PaymentMethodCache) GetName(code string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pm, ok := c.methods[code]
	if !ok {
		return "Unknown"
	}
	return pm.Name
}
