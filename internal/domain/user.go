package domain

import "time"

// UserProfile representa el documento completo de un usuario.
// Attributes guarda el perfil tal como lo envia el frontend (sector, chiefs,
// unitEconomics, valuation, etc.) para soportar el endpoint generico de atributos.
type UserProfile struct {
	UID        string         `json:"uid"`
	Attributes map[string]any `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Document devuelve el perfil en el formato que espera el cliente: los
// atributos al tope del documento, con el uid siempre presente.
func (u UserProfile) Document() map[string]any {
	doc := make(map[string]any, len(u.Attributes)+1)
	for k, v := range u.Attributes {
		doc[k] = v
	}
	doc["uid"] = u.UID
	return doc
}

// DefaultUnitEconomics es el bloque inicial de unit economics de onboarding.
func DefaultUnitEconomics() map[string]any {
	return map[string]any{
		"aov":         0,
		"cac":         0,
		"isOpen":      false,
		"category":    "Other",
		"enableChurn": true,
		"churn":       0,
		"cogs":        map[string]any{"Manufacture": 0, "Package": 0},
		"ltv":         0,
		"margin":      0,
		"marginRate":  0,
		"ratio":       0,
		"order":       0,
	}
}

// DefaultValuation es el bloque inicial de valuacion de onboarding.
func DefaultValuation() map[string]any {
	return map[string]any{
		"revenue":     0,
		"marketSize":  0,
		"som":         0,
		"outflow":     1,
		"growth":      0,
		"numYears":    1,
		"equityValue": 0,
		"debtValue":   0,
		"tax":         0,
		"equityCost":  0,
		"debtCost":    0,
	}
}
