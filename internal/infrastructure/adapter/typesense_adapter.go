package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

// TypesenseAdapter keeps one document per destination city for typo-tolerant prefix suggestions.
type TypesenseAdapter struct {
	client         *typesense.Client
	collectionName string
	logger         *slog.Logger
}

func NewTypesenseAdapter(hostURL, apiKey, collectionName string, logger *slog.Logger) (*TypesenseAdapter, error) {
	client := typesense.NewClient(
		typesense.WithServer(hostURL),
		typesense.WithAPIKey(apiKey),
	)

	adapter := &TypesenseAdapter{
		client:         client,
		collectionName: collectionName,
		logger:         logger,
	}

	if err := adapter.initializeCollection(); err != nil {
		return nil, fmt.Errorf("failed to initialize collection: %w", err)
	}

	return adapter, nil
}

type DestinationDocument struct {
	ID            string `json:"id"`
	City          string `json:"city"`
	Province      string `json:"province"`
	Country       string `json:"country"`
	PropertyCount int32  `json:"property_count"`
	UpdatedAt     int64  `json:"updated_at"`
}

func (t *TypesenseAdapter) initializeCollection() error {
	collectionSchema := &api.CollectionSchema{
		Name: t.collectionName,
		Fields: []api.Field{
			{
				Name: "city",
				Type: "string",
			},
			{
				Name:     "province",
				Type:     "string",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "country",
				Type:     "string",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name: "property_count",
				Type: "int32",
			},
			{
				Name: "updated_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("property_count"),
	}

	_, err := t.client.Collections().Create(collectionSchema)
	if err != nil {
		t.logger.Warn("Collection creation result", "error", err)
	}

	t.logger.Info("Typesense collection initialized", "collection_name", t.collectionName)
	return nil
}

func destinationDocumentID(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), "-")
}

func toDestinationDocument(destination search.Destination, now time.Time) DestinationDocument {
	return DestinationDocument{
		ID:            destinationDocumentID(destination.City),
		City:          destination.City,
		Province:      destination.Province,
		Country:       destination.Country,
		PropertyCount: int32(destination.PropertyCount),
		UpdatedAt:     now.UTC().Unix(),
	}
}

// Index replaces the collection contents so cities without properties disappear.
func (t *TypesenseAdapter) Index(ctx context.Context, destinations []search.Destination) error {
	if err := t.resetCollection(ctx); err != nil {
		return err
	}
	if len(destinations) == 0 {
		return nil
	}

	now := time.Now()
	documents := make([]interface{}, 0, len(destinations))
	for _, destination := range destinations {
		documents = append(documents, toDestinationDocument(destination, now))
	}

	params := &api.ImportDocumentsParams{
		Action:    pointer.String("upsert"),
		BatchSize: pointer.Int(100),
	}

	if _, err := t.client.Collection(t.collectionName).Documents().Import(documents, params); err != nil {
		t.logger.Error("Failed to import documents", "error", err)
		return fmt.Errorf("failed to index destinations: %w", err)
	}

	t.logger.Info("Destinations indexed successfully", "count", len(destinations))
	return nil
}

func (t *TypesenseAdapter) Suggest(_ context.Context, query string, limit int) ([]search.Suggestion, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       query,
		QueryBy: "city,province,country",
		SortBy:  pointer.String("_text_match:desc,property_count:desc"),
		PerPage: pointer.Int(limit),
		Page:    pointer.Int(1),
	}

	searchResponse, err := t.client.Collection(t.collectionName).Documents().Search(searchParams)
	if err != nil {
		t.logger.Error("Typesense search failed", "error", err)
		return nil, fmt.Errorf("typesense search error: %w", err)
	}

	suggestions := make([]search.Suggestion, 0)
	if searchResponse.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *searchResponse.Hits {
		score := 0.0
		if hit.TextMatch != nil {
			score = float64(*hit.TextMatch)
		}
		suggestion, err := hitToSuggestion(hit.Document, score)
		if err != nil {
			t.logger.Warn("Failed to convert document to suggestion", "error", err)
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

func hitToSuggestion(hit any, score float64) (search.Suggestion, error) {
	data, err := json.Marshal(hit)
	if err != nil {
		return search.Suggestion{}, err
	}

	var document DestinationDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return search.Suggestion{}, err
	}
	if document.City == "" {
		return search.Suggestion{}, fmt.Errorf("document %q has no city", document.ID)
	}

	return search.Suggestion{
		Text:          document.City,
		Type:          "city",
		Score:         score,
		PropertyCount: int(document.PropertyCount),
	}, nil
}

func (t *TypesenseAdapter) resetCollection(_ context.Context) error {
	if _, err := t.client.Collection(t.collectionName).Retrieve(); err == nil {
		if _, err := t.client.Collection(t.collectionName).Delete(); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
	}

	if err := t.initializeCollection(); err != nil {
		return fmt.Errorf("failed to reinitialize collection: %w", err)
	}
	return nil
}

func (t *TypesenseAdapter) HealthCheck(_ context.Context) error {
	if _, err := t.client.Health(5 * time.Second); err != nil {
		return fmt.Errorf("typesense health check failed: %w", err)
	}
	return nil
}
