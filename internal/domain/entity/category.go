package entity

// Category agrupa productos. Nombre único; no se puede borrar con productos asociados.
type Category struct {
	ID   int64
	Name string
}
