package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"venture-desk/internal/domain"
)

type mockUserRepo struct {
	docs map[string]map[string]any
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{docs: make(map[string]map[string]any)}
}

func (m *mockUserRepo) Upsert(_ context.Context, uid string, attributes map[string]any) error {
	doc, ok := m.docs[uid]
	if !ok {
		doc = make(map[string]any)
		m.docs[uid] = doc
	}
	for k, v := range attributes {
		doc[k] = v
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, uid string) (domain.UserProfile, error) {
	doc, ok := m.docs[uid]
	if !ok {
		return domain.UserProfile{}, pgx.ErrNoRows
	}
	return domain.UserProfile{UID: uid, Attributes: doc, CreatedAt: time.Now().UTC()}, nil
}

func (m *mockUserRepo) ReplaceAttribute(_ context.Context, uid, attribute string, value any) error {
	doc, ok := m.docs[uid]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(doc, attribute)
	doc[attribute] = value
	return nil
}

func TestOnboardInjectsDefaultsAndFoldsChiefs(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockSentimentRepo())

	user, err := svc.Onboard(context.Background(), map[string]any{
		"uid":    "u1",
		"sector": "Technology",
		"chiefs": []any{
			map[string]any{"name": "Ada", "email": "ada@acme.io"},
			map[string]any{"name": "Linus", "email": "linus@acme.io"},
		},
		"unitEconomics": map[string]any{"aov": 99},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user["uid"] != "u1" {
		t.Fatalf("document must carry the uid, got %v", user["uid"])
	}

	chiefs, ok := user["chiefs"].(map[string]any)
	if !ok || chiefs["Ada"] != "ada@acme.io" || chiefs["Linus"] != "linus@acme.io" {
		t.Fatalf("expected folded chiefs map, got %+v", user["chiefs"])
	}

	// El bloque default pisa lo que venga en el payload.
	if !reflect.DeepEqual(user["unitEconomics"], domain.DefaultUnitEconomics()) {
		t.Fatalf("expected default unit economics, got %+v", user["unitEconomics"])
	}
	if !reflect.DeepEqual(user["valuation"], domain.DefaultValuation()) {
		t.Fatalf("expected default valuation, got %+v", user["valuation"])
	}
}

func TestOnboardMissingUID(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), newMockSentimentRepo())
	if _, err := svc.Onboard(context.Background(), map[string]any{"sector": "finance"}); !errors.Is(err, ErrUIDRequired) {
		t.Fatalf("expected ErrUIDRequired, got %v", err)
	}
}

func TestGetAttribute(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockSentimentRepo())

	if _, err := svc.GetAttribute(context.Background(), "ghost", "valuation"); !errors.Is(err, ErrUserNotRegistered) {
		t.Fatalf("expected ErrUserNotRegistered, got %v", err)
	}

	repo.docs["u1"] = map[string]any{
		"valuation": map[string]any{"revenue": float64(500)},
		"notes":     map[string]any{},
	}

	value, err := svc.GetAttribute(context.Background(), "u1", "valuation")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(value, map[string]any{"revenue": float64(500)}) {
		t.Fatalf("unexpected attribute value: %+v", value)
	}

	if _, err := svc.GetAttribute(context.Background(), "u1", "missing"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound for absent attribute, got %v", err)
	}
	// Un atributo vacio cuenta como ausente.
	if _, err := svc.GetAttribute(context.Background(), "u1", "notes"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound for empty attribute, got %v", err)
	}
}

func TestReplaceAttributeFullReplace(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockSentimentRepo())

	repo.docs["u1"] = map[string]any{
		"valuation": map[string]any{"revenue": float64(0), "marketSize": float64(10)},
	}

	if err := svc.ReplaceAttribute(context.Background(), "u1", "valuation", map[string]any{"revenue": float64(500)}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Reemplazo completo: los campos hermanos viejos desaparecen.
	want := map[string]any{"revenue": float64(500)}
	if !reflect.DeepEqual(repo.docs["u1"]["valuation"], want) {
		t.Fatalf("expected full replace %+v, got %+v", want, repo.docs["u1"]["valuation"])
	}

	if err := svc.ReplaceAttribute(context.Background(), "u1", "missing", map[string]any{"x": 1}); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
	if err := svc.ReplaceAttribute(context.Background(), "ghost", "valuation", map[string]any{}); !errors.Is(err, ErrUserNotRegistered) {
		t.Fatalf("expected ErrUserNotRegistered, got %v", err)
	}
}

func TestGetSentimentsResolvesSector(t *testing.T) {
	userRepo := newMockUserRepo()
	sentimentRepo := newMockSentimentRepo()
	svc := NewUserService(zap.NewNop(), userRepo, sentimentRepo)

	userRepo.docs["u1"] = map[string]any{"sector": "Finance"}
	sentimentRepo.reports["finance"] = domain.SentimentReport{
		Topic:     "finance",
		Score:     0.5,
		Articles:  []domain.Article{{Title: "banks rally"}},
		UpdatedAt: time.Now().UTC(),
	}

	doc, err := svc.GetSentiments(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc["industry"] != "finance" || doc["overall_sentiment"] != 0.5 {
		t.Fatalf("unexpected sentiment doc: %+v", doc)
	}

	userRepo.docs["u2"] = map[string]any{}
	if _, err := svc.GetSentiments(context.Background(), "u2"); !errors.Is(err, ErrSectorMissing) {
		t.Fatalf("expected ErrSectorMissing, got %v", err)
	}
}
