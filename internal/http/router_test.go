package http

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"venture-desk/internal/auth"
	"venture-desk/internal/domain"
	"venture-desk/internal/llm"
	"venture-desk/internal/service"
	"venture-desk/internal/vc"
)

// Mocks en memoria para levantar el router completo sin Postgres ni Redis.

type memUserRepo struct {
	docs map[string]map[string]any
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{docs: make(map[string]map[string]any)}
}

func (m *memUserRepo) Upsert(_ context.Context, uid string, attributes map[string]any) error {
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

func (m *memUserRepo) GetByID(_ context.Context, uid string) (domain.UserProfile, error) {
	doc, ok := m.docs[uid]
	if !ok {
		return domain.UserProfile{}, pgx.ErrNoRows
	}
	return domain.UserProfile{UID: uid, Attributes: doc}, nil
}

func (m *memUserRepo) ReplaceAttribute(_ context.Context, uid, attribute string, value any) error {
	doc, ok := m.docs[uid]
	if !ok {
		return pgx.ErrNoRows
	}
	doc[attribute] = value
	return nil
}

type memSentimentRepo struct {
	reports map[string]domain.SentimentReport
}

func (m *memSentimentRepo) Put(_ context.Context, report domain.SentimentReport) error {
	m.reports[report.Topic] = report
	return nil
}

func (m *memSentimentRepo) GetByTopic(_ context.Context, topic string) (domain.SentimentReport, error) {
	report, ok := m.reports[topic]
	if !ok {
		return domain.SentimentReport{}, pgx.ErrNoRows
	}
	return report, nil
}

type memPlanRepo struct {
	sessions map[string]domain.PlanSession
	messages map[string][]domain.PlanMessage
	latest   map[string][]string
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{
		sessions: make(map[string]domain.PlanSession),
		messages: make(map[string][]domain.PlanMessage),
		latest:   make(map[string][]string),
	}
}

func (m *memPlanRepo) CreateSession(_ context.Context, session domain.PlanSession) error {
	m.sessions[session.ID] = session
	m.latest[session.UserID] = append(m.latest[session.UserID], session.ID)
	return nil
}

func (m *memPlanRepo) GetSession(_ context.Context, userID, sessionID string) (domain.PlanSession, error) {
	session, ok := m.sessions[sessionID]
	if !ok || session.UserID != userID {
		return domain.PlanSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *memPlanRepo) LatestSessionID(_ context.Context, userID string) (string, error) {
	ids := m.latest[userID]
	if len(ids) == 0 {
		return "", pgx.ErrNoRows
	}
	return ids[len(ids)-1], nil
}

func (m *memPlanRepo) AppendMessage(_ context.Context, message domain.PlanMessage) error {
	m.messages[message.SessionID] = append(m.messages[message.SessionID], message)
	return nil
}

func (m *memPlanRepo) ListMessages(_ context.Context, sessionID string) ([]domain.PlanMessage, error) {
	msgs := m.messages[sessionID]
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

type stubVerifier struct {
	subjects map[string]string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	subject, ok := s.subjects[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenInvalid
	}
	return auth.Identity{Subject: subject}, nil
}

type testEnv struct {
	router *gin.Engine
	users  *memUserRepo
	plans  *memPlanRepo
	llm    *llm.MockClient
}

func writeTestDataset(t *testing.T) string {
	t.Helper()
	const data = `Investor name,Global HQ,Countries of investment,Stage of investment,First cheque minimum,First cheque maximum,Investor type
Alpha Capital,United Kingdom,Kenya; Nigeria,Seed,50000,500000,VC
Beta Partners,USA,India,Series A,"1,000,000","5,000,000",Angel network
Gamma Fund,Singapore,Singapore; Indonesia,Pre-seed,,,VC
`
	path := filepath.Join(t.TempDir(), "vc_data.csv")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newMemUserRepo()
	sentiments := &memSentimentRepo{reports: make(map[string]domain.SentimentReport)}
	plans := newMemPlanRepo()
	llmClient := &llm.MockClient{Response: "Looks promising."}

	dataset, err := vc.LoadDataset(writeTestDataset(t))
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	verifier := &stubVerifier{subjects: map[string]string{"good-token": "u1"}}
	userServ := service.NewUserService(logger, users, sentiments)
	feedbackServ := service.NewFeedbackService(logger, plans, llmClient)

	router := NewRouter(
		logger,
		"http://localhost:3000",
		NewUserHandler(logger, verifier, userServ),
		NewFeedbackHandler(logger, feedbackServ),
		NewVCHandler(logger, dataset),
	)

	return &testEnv{router: router, users: users, plans: plans, llm: llmClient}
}
