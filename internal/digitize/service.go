// Package digitize turns a photo of a clothing piece into a catalog item
// draft using a vision-capable LLM.
package digitize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wardrobehub/wardrobehub/internal/images"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"github.com/wardrobehub/wardrobehub/internal/providers"
)

// ImageFetcher downloads an image reference.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*images.Image, error)
}

// Request asks for one image to be digitized
type Request struct {
	ImageURL string `json:"image_url"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Service struct {
	fetcher         ImageFetcher
	providers       map[string]providers.Provider
	defaultModels   map[string]string
	defaultProvider string
}

// NewService wires the providers by name. defaultProvider is used when a
// request does not name one.
func NewService(fetcher ImageFetcher, defaultProvider string) *Service {
	return &Service{
		fetcher:         fetcher,
		providers:       make(map[string]providers.Provider),
		defaultModels:   make(map[string]string),
		defaultProvider: defaultProvider,
	}
}

// Register adds a provider and the model it uses when none is requested.
func (s *Service) Register(name string, p providers.Provider, defaultModel string) {
	s.providers[name] = p
	s.defaultModels[name] = defaultModel
}

// Digitize fetches the image and asks the provider to describe it. The
// returned item has a fresh id and is private until the owner publishes it.
func (s *Service) Digitize(ctx context.Context, req Request) (models.CatalogItem, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return models.CatalogItem{}, fmt.Errorf("image_url is required")
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = s.defaultProvider
	}
	provider, ok := s.providers[providerName]
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("unsupported provider: %s", providerName)
	}
	model := req.Model
	if model == "" {
		model = s.defaultModels[providerName]
	}

	img, err := s.fetcher.Fetch(ctx, req.ImageURL)
	if err != nil {
		return models.CatalogItem{}, err
	}

	slog.Info("Digitizing wardrobe item", "provider", providerName, "model", model, "bytes", len(img.Data))
	raw, err := provider.Generate(ctx, providers.Config{
		Model:       model,
		Temperature: 0.1,
		Prompt:      buildPrompt(),
		Image:       img.Data,
		MIMEType:    img.MIMEType,
	})
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("failed to describe item: %w", err)
	}

	item, err := parseDraft(raw)
	if err != nil {
		return models.CatalogItem{}, err
	}
	item.ID = uuid.NewString()
	item.ImageURL = req.ImageURL
	return item, nil
}

func buildPrompt() string {
	var cats []string
	for _, c := range models.Categories() {
		cats = append(cats, string(c))
	}
	return fmt.Sprintf(`You are a fashion stylist cataloging a client's wardrobe.

Look at the photo of a single clothing piece and respond with ONLY a JSON object:
{"name": "<short descriptive name, e.g. Wool Overcoat>", "category": "<one of: %s>", "brand": "<brand if a label is visible, otherwise empty>"}

Do not include any other text.`, strings.Join(cats, ", "))
}

// parseDraft extracts the JSON object from a model answer, tolerating
// markdown code fences and surrounding prose.
func parseDraft(raw string) (models.CatalogItem, error) {
	text := strings.TrimSpace(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return models.CatalogItem{}, fmt.Errorf("no JSON object in model response")
	}

	var draft struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Brand    string `json:"brand"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &draft); err != nil {
		return models.CatalogItem{}, fmt.Errorf("failed to parse model response: %w", err)
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.CatalogItem{}, fmt.Errorf("model response has no name")
	}
	category, err := models.ParseCategory(draft.Category)
	if err != nil {
		return models.CatalogItem{}, err
	}

	return models.CatalogItem{
		Name:     name,
		Category: category,
		Brand:    strings.TrimSpace(draft.Brand),
	}, nil
}
