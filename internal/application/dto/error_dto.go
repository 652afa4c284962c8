package dto

import "time"

// ErrorResponse cuerpo estándar de error de la API.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// ValidationErrorResponse variante con detalles por campo en lugar de message.
type ValidationErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Details   []string  `json:"details"`
	Path      string    `json:"path"`
}
