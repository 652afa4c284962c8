package entity

// Warehouse bodega física. Nombre único; no se puede borrar con stock asociado.
type Warehouse struct {
	ID       int64
	Name     string
	Location string
}
