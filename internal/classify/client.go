package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Etiquetas de polaridad que produce el clasificador.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Classifier asigna una etiqueta de polaridad a un texto.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// HTTPClassifier implementa Classifier contra un endpoint de inferencia
// hospedado (forma de la Inference API de Hugging Face).
type HTTPClassifier struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewHTTPClassifier(endpoint, token string) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify devuelve la etiqueta con mayor score para el texto dado.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("do request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("classifier http error: status=%d", resp.StatusCode)
			continue
		}
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("classifier http error: status=%d body=%s", resp.StatusCode, string(body))
		}

		return topLabel(body)
	}
	return "", lastErr
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// topLabel extrae la etiqueta de mayor score del response de inferencia,
// que llega como lista de listas de {label, score}.
func topLabel(body []byte) (string, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return best(nested[0]), nil
	}

	// Algunos despliegues devuelven la lista plana.
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return best(flat), nil
	}

	return "", fmt.Errorf("classifier response unparseable: %s", string(body))
}

func best(scores []labelScore) string {
	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return top.Label
}
