package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"venture-desk/internal/classify"
	"venture-desk/internal/domain"
	"venture-desk/internal/news"
	"venture-desk/internal/repository"
)

// SentimentService refresca el cache de sentimientos: trae articulos,
// clasifica la polaridad de cada titular, reduce a la media y sobreescribe
// la entrada del topic.
type SentimentService struct {
	logger     *zap.Logger
	news       news.Client
	classifier classify.Classifier
	repo       repository.SentimentRepository
}

func NewSentimentService(logger *zap.Logger, newsClient news.Client, classifier classify.Classifier, repo repository.SentimentRepository) *SentimentService {
	return &SentimentService{
		logger:     logger,
		news:       newsClient,
		classifier: classifier,
		repo:       repo,
	}
}

// RefreshMarket recalcula el sentimiento global de mercado desde los
// titulares de negocios del momento.
func (s *SentimentService) RefreshMarket(ctx context.Context) error {
	articles, err := s.news.TopBusinessHeadlines(ctx)
	if err != nil {
		return fmt.Errorf("fetch headlines: %w", err)
	}

	scores := make([]int, 0, len(articles))
	for _, article := range articles {
		label, err := s.classifier.Classify(ctx, titleOf(article))
		if err != nil {
			return fmt.Errorf("classify headline: %w", err)
		}
		scores = append(scores, polarity(label))
	}

	report := domain.SentimentReport{
		Topic:     domain.TopicMarket,
		Score:     meanScore(scores),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, report); err != nil {
		return fmt.Errorf("store market sentiment: %w", err)
	}

	s.logger.Info("market sentiment updated",
		zap.Float64("score", report.Score),
		zap.Int("articles", len(articles)),
	)
	return nil
}

// RefreshIndustry recalcula el sentimiento de una industria desde los
// articulos de los ultimos 7 dias que matchean sus keywords.
func (s *SentimentService) RefreshIndustry(ctx context.Context, industry string) error {
	keywords := domain.IndustryKeywords[industry]
	if len(keywords) == 0 {
		keywords = []string{industry}
	}

	from := time.Now().UTC().AddDate(0, 0, -7)
	articles, err := s.news.Search(ctx, keywords, from)
	if err != nil {
		return fmt.Errorf("fetch %s articles: %w", industry, err)
	}

	scores := make([]int, 0, len(articles))
	details := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		title := titleOf(article)
		label, err := s.classifier.Classify(ctx, title)
		if err != nil {
			return fmt.Errorf("classify %s headline: %w", industry, err)
		}
		scores = append(scores, polarity(label))
		details = append(details, domain.Article{
			Title:     title,
			Sentiment: label,
			Source:    sourceOf(article),
			Link:      linkOf(article),
			Published: publishedOf(article),
		})
	}

	report := domain.SentimentReport{
		Topic:     industry,
		Score:     meanScore(scores),
		Articles:  details,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, report); err != nil {
		return fmt.Errorf("store %s sentiment: %w", industry, err)
	}

	s.logger.Info("industry sentiment updated",
		zap.String("industry", industry),
		zap.Float64("score", report.Score),
		zap.Int("articles", len(articles)),
	)
	return nil
}

// RefreshAllIndustries recorre las industrias en orden fijo. Un error corta
// el ciclo: las industrias anteriores quedan actualizadas y el resto viejas.
func (s *SentimentService) RefreshAllIndustries(ctx context.Context) error {
	for _, industry := range domain.Industries {
		if err := s.RefreshIndustry(ctx, industry); err != nil {
			return err
		}
	}
	return nil
}

// polarity pliega la etiqueta del clasificador a {+1, -1, 0}.
func polarity(label string) int {
	switch label {
	case classify.LabelPositive:
		return 1
	case classify.LabelNegative:
		return -1
	default:
		return 0
	}
}

// meanScore es la media aritmetica; cero articulos da exactamente 0.
func meanScore(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

func titleOf(a news.Article) string {
	if a.Title == "" {
		return "No title"
	}
	return a.Title
}

func sourceOf(a news.Article) string {
	if a.Source.Name == "" {
		return "Unknown"
	}
	return a.Source.Name
}

func linkOf(a news.Article) string {
	if a.URL == "" {
		return "#"
	}
	return a.URL
}

func publishedOf(a news.Article) string {
	if a.PublishedAt == "" {
		return "No date"
	}
	return a.PublishedAt
}
