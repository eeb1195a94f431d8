package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"venture-desk/internal/domain"
	"venture-desk/internal/repository"
)

// UserService coordina onboarding, atributos de perfil y lectura de sentimientos.
type UserService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	sentiments repository.SentimentRepository
}

var (
	ErrUserNotRegistered = errors.New("user not fully registered")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrUIDRequired       = errors.New("uid required")
	ErrSectorMissing     = errors.New("sector missing")
)

func NewUserService(logger *zap.Logger, users repository.UserRepository, sentiments repository.SentimentRepository) *UserService {
	return &UserService{
		logger:     logger,
		users:      users,
		sentiments: sentiments,
	}
}

// Onboard crea o completa el perfil: pliega la lista de chiefs a un mapa
// nombre->email, inyecta los bloques default de unit economics y valuacion,
// y devuelve el documento resultante.
func (s *UserService) Onboard(ctx context.Context, payload map[string]any) (map[string]any, error) {
	uid, _ := payload["uid"].(string)
	if strings.TrimSpace(uid) == "" {
		return nil, ErrUIDRequired
	}

	attributes := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		attributes[k] = v
	}
	delete(attributes, "uid")

	if chairs, ok := payload["chiefs"].([]any); ok {
		chiefs := make(map[string]any, len(chairs))
		for _, raw := range chairs {
			chair, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name, _ := chair["name"].(string)
			if name == "" {
				continue
			}
			chiefs[name] = chair["email"]
		}
		attributes["chiefs"] = chiefs
	}

	// Los bloques default pisan lo que venga en el payload.
	attributes["unitEconomics"] = domain.DefaultUnitEconomics()
	attributes["valuation"] = domain.DefaultValuation()

	if err := s.users.Upsert(ctx, uid, attributes); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	return profile.Document(), nil
}

// GetProfile devuelve el documento completo del usuario.
func (s *UserService) GetProfile(ctx context.Context, uid string) (map[string]any, error) {
	profile, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return profile.Document(), nil
}

// GetAttribute devuelve el valor crudo de un atributo con nombre del perfil.
func (s *UserService) GetAttribute(ctx context.Context, uid, attribute string) (any, error) {
	profile, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotRegistered
	}
	if err != nil {
		return nil, err
	}

	value, ok := profile.Attributes[attribute]
	if !ok || isEmptyValue(value) {
		return nil, ErrAttributeNotFound
	}
	return value, nil
}

// ReplaceAttribute reemplaza el atributo completo: los campos hermanos del
// valor anterior desaparecen, no se mezclan.
func (s *UserService) ReplaceAttribute(ctx context.Context, uid, attribute string, value any) error {
	profile, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotRegistered
	}
	if err != nil {
		return err
	}

	current, ok := profile.Attributes[attribute]
	if !ok || isEmptyValue(current) {
		return ErrAttributeNotFound
	}

	if err := s.users.ReplaceAttribute(ctx, uid, attribute, value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttributeNotFound
		}
		return fmt.Errorf("replace attribute: %w", err)
	}
	return nil
}

// GetSentiments resuelve el sector del usuario y devuelve la entrada de cache
// de ese topic como documento listo para el cliente.
func (s *UserService) GetSentiments(ctx context.Context, uid string) (map[string]any, error) {
	profile, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotRegistered
	}
	if err != nil {
		return nil, err
	}

	sector, _ := profile.Attributes["sector"].(string)
	if sector == "" {
		return nil, ErrSectorMissing
	}

	report, err := s.sentiments.GetByTopic(ctx, strings.ToLower(sector))
	if err != nil {
		return nil, err
	}
	return report.Document(), nil
}

// isEmptyValue decide si un atributo cuenta como "vacio":
// nil, cadena vacia, cero, false, o contenedor sin elementos.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
