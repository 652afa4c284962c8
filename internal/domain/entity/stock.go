package entity

// Stock existencias de un producto en una bodega. A lo sumo una fila por
// par (ProductID, WarehouseID); la cantidad nunca es negativa.
type Stock struct {
	ID          int64
	ProductID   int64
	WarehouseID int64
	Quantity    int
}

// StockDetail fila de stock enriquecida con los nombres para lecturas.
type StockDetail struct {
	ID            int64
	ProductID     int64
	ProductName   string
	WarehouseID   int64
	WarehouseName string
	Quantity      int
}
