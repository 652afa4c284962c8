package entity

import "github.com/shopspring/decimal"

// Product artículo del catálogo. Nombre único, precio > 0.
// No se puede borrar mientras exista stock que lo referencie.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
}
