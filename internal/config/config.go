package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	TokenSecret string `env:"TOKEN_SECRET,required"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY,required"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	NewsAPIKey  string `env:"NEWS_API_KEY,required"`
	NewsBaseURL string `env:"NEWS_BASE_URL" envDefault:"https://newsapi.org"`

	ClassifierURL   string `env:"CLASSIFIER_URL,required"`
	ClassifierToken string `env:"CLASSIFIER_TOKEN"`

	VCDataPath string `env:"VC_DATA_PATH" envDefault:"vc_data.csv"`

	SentimentIntervalMinutes int `env:"SENTIMENT_INTERVAL_MINUTES" envDefault:"60"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
