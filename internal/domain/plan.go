package domain

import "time"

const (
	RoleUser = "user"
	RoleLLM  = "llm"
)

// PlanSession es una conversacion de feedback sobre un borrador de plan de negocio.
// No existe una transicion de cierre: una sesion abandonada es simplemente
// una sesion que deja de recibir mensajes.
type PlanSession struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	VentureName string         `json:"venture_name"`
	Location    string         `json:"location"`
	Mission     string         `json:"mission"`
	What        string         `json:"what"`
	Optional    map[string]any `json:"optional,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// PlanMessage es un turno dentro de una sesion, con rol "user" o "llm".
type PlanMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
