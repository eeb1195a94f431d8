package domain

import "time"

// TopicMarket es la clave del cache de sentimiento global de mercado.
const TopicMarket = "market"

// Article es el detalle por articulo que acompana a un reporte de industria.
type Article struct {
	Title     string `json:"title"`
	Sentiment string `json:"sentiment"`
	Source    string `json:"source"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// SentimentReport es una entrada del cache de sentimientos, sobreescrita
// completa en cada ciclo de refresco. Articles queda nil para el topic market.
type SentimentReport struct {
	Topic     string    `json:"topic"`
	Score     float64   `json:"score"`
	Articles  []Article `json:"articles,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document devuelve la entrada en el formato del documento cacheado que
// consume el frontend. El topic market tiene su propia clave de score.
func (r SentimentReport) Document() map[string]any {
	if r.Topic == TopicMarket {
		return map[string]any{
			"overall_market_sentiment": r.Score,
			"timestamp":                r.UpdatedAt,
		}
	}
	articles := r.Articles
	if articles == nil {
		articles = []Article{}
	}
	return map[string]any{
		"industry":          r.Topic,
		"articles":          articles,
		"overall_sentiment": r.Score,
		"timestamp":         r.UpdatedAt,
	}
}

// Industries fija el orden de refresco de los topics de industria.
var Industries = []string{
	"finance",
	"technology",
	"healthcare",
	"energy",
	"automotive",
	"retail",
	"entertainment",
	"education",
	"real estate",
	"manufacturing",
	"transportation",
	"agriculture",
	"consulting",
}

// IndustryKeywords mapea cada industria a las palabras clave usadas para
// armar la consulta disyuntiva contra la API de noticias.
var IndustryKeywords = map[string][]string{
	"finance":        {"stock market", "banking", "investment", "cryptocurrency"},
	"technology":     {"AI", "machine learning", "cybersecurity", "blockchain"},
	"healthcare":     {"pharmaceutical", "biotech", "vaccine", "medical research"},
	"energy":         {"renewable energy", "oil", "solar power", "nuclear energy"},
	"automotive":     {"electric vehicle", "autonomous driving", "Tesla", "EV market"},
	"retail":         {"e-commerce", "online shopping", "brick-and-mortar", "retail industry"},
	"entertainment":  {"streaming", "movies", "music", "celebrities"},
	"education":      {"online learning", "edtech", "remote education", "learning platforms"},
	"real estate":    {"property market", "housing", "commercial real estate", "mortgage rates"},
	"manufacturing":  {"supply chain", "logistics", "industrial production", "manufacturing industry"},
	"transportation": {"ride-sharing", "autonomous vehicles", "public transport", "mobility services"},
	"agriculture":    {"farming", "agtech", "food security", "agricultural industry"},
	"consulting":     {"management consulting", "strategy consulting", "consulting industry", "business advisory"},
}
