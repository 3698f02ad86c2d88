package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields errores por campo (validación).
	Fields map[string]string `json:"fields,omitempty"`
	// NearMisses candidatos cercanos cuando el resolver no encontró el registro.
	NearMisses []string `json:"nearMisses,omitempty"`
	// CompletedSteps pasos de la saga que sí quedaron aplicados antes de la falla.
	CompletedSteps []string `json:"completedSteps,omitempty"`
}
