package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/careloop/careloop-backend/internal/logger"
	"github.com/careloop/careloop-backend/internal/types"
)

// Client wraps the hosted inference endpoints for the three NLP models
// the backend consumes. Every method is a single attempt against the
// upstream; callers own fallback behavior.
type Client interface {
	ExtractEntities(ctx context.Context, text string) ([]types.MedicalEntity, error)
	AnswerQuestion(ctx context.Context, question, qaContext string) (string, error)
	ClassifyContent(ctx context.Context, text string) (types.ContentLabel, error)
}

type client struct {
	log             *logger.Logger
	baseURL         string
	apiKey          string
	nerModel        string
	qaModel         string
	classifierModel string
	httpClient      *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("HF_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing HF_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("HF_API_BASE"))
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	nerModel := strings.TrimSpace(os.Getenv("HF_NER_MODEL"))
	if nerModel == "" {
		nerModel = "d4data/biomedical-ner-all"
	}
	qaModel := strings.TrimSpace(os.Getenv("HF_QA_MODEL"))
	if qaModel == "" {
		qaModel = "deepset/roberta-base-squad2"
	}
	classifierModel := strings.TrimSpace(os.Getenv("HF_CLASSIFIER_MODEL"))
	if classifierModel == "" {
		classifierModel = "microsoft/BiomedNLP-PubMedBERT-base-uncased-abstract-fulltext"
	}

	timeoutSec := 30
	if v := os.Getenv("HF_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:             log.With("service", "HFClient"),
		baseURL:         baseURL,
		apiKey:          apiKey,
		nerModel:        nerModel,
		qaModel:         qaModel,
		classifierModel: classifierModel,
		httpClient:      &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (c *client) post(ctx context.Context, model string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hf inference http %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

type rawEntity struct {
	Word   string  `json:"word"`
	Entity string  `json:"entity"`
	Score  float64 `json:"score"`
}

func (c *client) ExtractEntities(ctx context.Context, text string) ([]types.MedicalEntity, error) {
	raw, err := c.post(ctx, c.nerModel, map[string]any{"inputs": text})
	if err != nil {
		return nil, err
	}

	var rawEntities []rawEntity
	if err := json.Unmarshal(raw, &rawEntities); err != nil {
		return nil, fmt.Errorf("hf ner decode: %w", err)
	}

	entities := make([]types.MedicalEntity, 0, len(rawEntities))
	for _, e := range rawEntities {
		if e.Entity == "" {
			continue
		}
		entities = append(entities, types.MedicalEntity{
			Text:       e.Word,
			Label:      e.Entity,
			Confidence: e.Score,
		})
	}
	return entities, nil
}

func (c *client) AnswerQuestion(ctx context.Context, question, qaContext string) (string, error) {
	if qaContext == "" {
		qaContext = "Medical and healthcare information context."
	}
	raw, err := c.post(ctx, c.qaModel, map[string]any{
		"inputs": map[string]string{
			"question": question,
			"context":  qaContext,
		},
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("hf qa decode: %w", err)
	}
	if result.Answer == "" {
		return "", fmt.Errorf("hf qa returned no answer")
	}
	return result.Answer, nil
}

func (c *client) ClassifyContent(ctx context.Context, text string) (types.ContentLabel, error) {
	raw, err := c.post(ctx, c.classifierModel, map[string]any{"inputs": text})
	if err != nil {
		return types.ContentLabel{}, err
	}

	var labels []types.ContentLabel
	if err := json.Unmarshal(raw, &labels); err != nil {
		// Some models nest candidates one level deeper.
		var nested [][]types.ContentLabel
		if nErr := json.Unmarshal(raw, &nested); nErr != nil || len(nested) == 0 {
			return types.ContentLabel{}, fmt.Errorf("hf classifier decode: %w", err)
		}
		labels = nested[0]
	}
	if len(labels) == 0 {
		return types.ContentLabel{}, fmt.Errorf("hf classifier returned no labels")
	}
	return labels[0], nil
}
