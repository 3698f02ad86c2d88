package entity

import "strings"

// Identificadores tipados. Los ids derivan entre colecciones (número legible vs id generado),
// por eso se comparan siempre a través del resolver y no con == disperso.
type (
	ReceivingID  string
	LineItemID   string
	ProductID    string
	OrderID      string
	AllocationID string
	TargetID     string
)

func (id ReceivingID) String() string  { return string(id) }
func (id LineItemID) String() string   { return string(id) }
func (id ProductID) String() string    { return string(id) }
func (id OrderID) String() string      { return string(id) }
func (id AllocationID) String() string { return string(id) }
func (id TargetID) String() string     { return string(id) }

// ProductIdentity identidad de producto tal como llega de cada fuente (código, nombre o SKU pueden variar).
type ProductIdentity struct {
	ProductID ProductID `json:"productId,omitempty"`
	Code      string    `json:"productCode,omitempty"`
	Name      string    `json:"productName,omitempty"`
	SKU       string    `json:"sku,omitempty"`
}

// Keys devuelve las claves no vacías de la identidad, en orden id, sku, código, nombre.
func (p ProductIdentity) Keys() []string {
	var keys []string
	for _, k := range []string{string(p.ProductID), p.SKU, p.Code, p.Name} {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsZero indica si no trae ninguna clave.
func (p ProductIdentity) IsZero() bool { return len(p.Keys()) == 0 }
