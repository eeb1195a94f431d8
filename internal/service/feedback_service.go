package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"venture-desk/internal/domain"
	"venture-desk/internal/llm"
	"venture-desk/internal/repository"
)

// systemMessage encabeza todos los prompts de feedback de planes de negocio.
const systemMessage = "You are an AI assistant providing structured feedback on business plans. Stay focused on startup strategy, market positioning, and execution feasibility."

// FeedbackService orquesta sesiones de feedback: persiste la sesion y sus
// turnos, y reenvia prompts al LLM externo. Cada llamada al LLM es stateless:
// el contexto es siempre los campos requeridos de la sesion mas el turno nuevo,
// nunca el historial previo.
type FeedbackService struct {
	logger *zap.Logger
	plans  repository.PlanRepository
	llm    llm.Client
}

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrSessionNotFound       = errors.New("session not found")
	ErrUpstream              = errors.New("upstream llm failure")
)

func NewFeedbackService(logger *zap.Logger, plans repository.PlanRepository, llmClient llm.Client) *FeedbackService {
	return &FeedbackService{
		logger: logger,
		plans:  plans,
		llm:    llmClient,
	}
}

// StartSessionInput refleja el formulario del plan: cuatro campos requeridos
// y el resto opcional, agrupado al persistir.
type StartSessionInput struct {
	UserID      string `json:"user_id"`
	VentureName string `json:"venture_name"`
	Location    string `json:"location"`
	Mission     string `json:"mission"`
	What        string `json:"what"`

	SalesMarketing string `json:"sales_marketing"`
	Operations     string `json:"operations"`
	Finance        string `json:"finance"`

	ResultCreated      string `json:"result_created"`
	HowResultCreated   string `json:"how_result_created"`
	WhoServed          string `json:"who_served"`
	WhyDoingThis       string `json:"why_doing_this"`
	WhyCustomersChoose string `json:"why_customers_choose"`
	StepByStepPlan     string `json:"step_by_step_plan"`

	Demographics           string `json:"demographics"`
	Psychographics         string `json:"psychographics"`
	SizeTargetMarket       string `json:"size_target_market"`
	WhereFindCustomers     string `json:"where_find_customers"`
	VisibilityStrategy     string `json:"visibility_strategy"`
	LeadGenerationStrategy string `json:"lead_generation_strategy"`
	ConversionStrategy     string `json:"conversion_strategy"`

	Products []string `json:"products"`

	OneYearGoal      string `json:"one_year_goal"`
	FiveYearPlusGoal string `json:"five_year_plus_goal"`
}

// StartSession valida el input, persiste la sesion y pide la evaluacion
// inicial al LLM. Si el LLM falla, la sesion ya quedo persistida con cero
// mensajes y se reporta ErrUpstream.
func (s *FeedbackService) StartSession(ctx context.Context, input StartSessionInput) (string, string, error) {
	if strings.TrimSpace(input.UserID) == "" ||
		strings.TrimSpace(input.VentureName) == "" ||
		strings.TrimSpace(input.Location) == "" ||
		strings.TrimSpace(input.Mission) == "" ||
		strings.TrimSpace(input.What) == "" {
		return "", "", ErrMissingRequiredFields
	}

	session := domain.PlanSession{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		VentureName: input.VentureName,
		Location:    input.Location,
		Mission:     input.Mission,
		What:        input.What,
		Optional:    optionalFields(input),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.plans.CreateSession(ctx, session); err != nil {
		return "", "", fmt.Errorf("persist session: %w", err)
	}

	prompt := buildPrompt(session, "Provide an initial assessment of this business plan.")

	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return session.ID, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.appendMessage(ctx, session.ID, domain.RoleLLM, reply); err != nil {
		return session.ID, "", err
	}

	return session.ID, reply, nil
}

// Respond agrega el turno del usuario, consulta al LLM y agrega la respuesta.
// El turno del usuario queda persistido aunque el LLM falle despues.
func (s *FeedbackService) Respond(ctx context.Context, userID, sessionID, message string) (string, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(sessionID) == "" || strings.TrimSpace(message) == "" {
		return "", ErrMissingRequiredFields
	}

	session, err := s.plans.GetSession(ctx, userID, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}

	if err := s.appendMessage(ctx, session.ID, domain.RoleUser, message); err != nil {
		return "", err
	}

	prompt := buildPrompt(session, "User Input: "+message)

	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.appendMessage(ctx, session.ID, domain.RoleLLM, reply); err != nil {
		return "", err
	}

	return reply, nil
}

// History devuelve los mensajes de la sesion ordenados por timestamp
// ascendente. Una sesion sin mensajes da lista vacia, no error.
func (s *FeedbackService) History(ctx context.Context, userID, sessionID string) ([]domain.PlanMessage, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingRequiredFields
	}
	messages, err := s.plans.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.PlanMessage{}
	}
	return messages, nil
}

// LatestSession devuelve el id de la sesion mas reciente del usuario.
func (s *FeedbackService) LatestSession(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrMissingRequiredFields
	}
	id, err := s.plans.LatestSessionID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	return id, nil
}

func (s *FeedbackService) appendMessage(ctx context.Context, sessionID, role, text string) error {
	msg := domain.PlanMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.plans.AppendMessage(ctx, msg); err != nil {
		return fmt.Errorf("append %s message: %w", role, err)
	}
	return nil
}

func buildPrompt(session domain.PlanSession, closing string) string {
	var sb strings.Builder
	sb.WriteString(systemMessage)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Venture Name: %s\n", session.VentureName)
	fmt.Fprintf(&sb, "Location: %s\n", session.Location)
	fmt.Fprintf(&sb, "Mission: %s\n", session.Mission)
	fmt.Fprintf(&sb, "What: %s\n\n", session.What)
	sb.WriteString(closing)
	return sb.String()
}

// optionalFields agrupa los campos opcionales y descarta los grupos vacios:
// la bolsa persistida nunca contiene un grupo sin ningun valor.
func optionalFields(input StartSessionInput) map[string]any {
	out := make(map[string]any)

	groups := map[string]map[string]string{
		"business_overview": {
			"sales_marketing": input.SalesMarketing,
			"operations":      input.Operations,
			"finance":         input.Finance,
		},
		"company_strategy": {
			"result_created":       input.ResultCreated,
			"how_result_created":   input.HowResultCreated,
			"who_served":           input.WhoServed,
			"why_doing_this":       input.WhyDoingThis,
			"why_customers_choose": input.WhyCustomersChoose,
			"step_by_step_plan":    input.StepByStepPlan,
		},
		"market_strategy": {
			"demographics":             input.Demographics,
			"psychographics":           input.Psychographics,
			"size_target_market":       input.SizeTargetMarket,
			"where_find_customers":     input.WhereFindCustomers,
			"visibility_strategy":      input.VisibilityStrategy,
			"lead_generation_strategy": input.LeadGenerationStrategy,
			"conversion_strategy":      input.ConversionStrategy,
		},
		"goals": {
			"one_year":       input.OneYearGoal,
			"five_year_plus": input.FiveYearPlusGoal,
		},
	}

	for name, group := range groups {
		hasValue := false
		values := make(map[string]any, len(group))
		for k, v := range group {
			values[k] = v
			if strings.TrimSpace(v) != "" {
				hasValue = true
			}
		}
		if hasValue {
			out[name] = values
		}
	}

	if len(input.Products) > 0 {
		out["products"] = input.Products
	}

	return out
}
