package server

import (
	"context"
	"encoding/json"
	"fmt"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/internal/views"
)

// resource is the seam between the HTTP layer and one entity
// repository. Records cross it as JSON-shaped maps so the page
// templates and the API handlers can stay generic over entity kinds.
type resource interface {
	kind() string
	list(ctx context.Context, query string) ([]map[string]any, error)
	create(ctx context.Context, body []byte) (map[string]any, error)
	update(ctx context.Context, id string, body []byte) (map[string]any, error)
	remove(ctx context.Context, id string) error
	count(ctx context.Context) (int64, error)
}

// entityResource adapts a typed repository to the resource seam.
type entityResource[T any, PT interface {
	*T
	store.Record
	views.Searchable
}] struct {
	repo *store.Repository[T, PT]
}

func (r *entityResource[T, PT]) kind() string { return r.repo.Kind() }

func (r *entityResource[T, PT]) list(ctx context.Context, query string) ([]map[string]any, error) {
	records, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := views.Filter[T, PT](records, query)

	out := make([]map[string]any, 0, len(filtered))
	for i := range filtered {
		m, err := toMap(&filtered[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *entityResource[T, PT]) create(ctx context.Context, body []byte) (map[string]any, error) {
	record := PT(new(T))
	if err := json.Unmarshal(body, record); err != nil {
		return nil, &store.ValidationError{Fields: []string{"body"}}
	}

	// A draft never dictates identity or timestamps.
	*record.RecordMeta() = store.Meta{}

	if err := r.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return toMap(record)
}

func (r *entityResource[T, PT]) update(ctx context.Context, id string, body []byte) (map[string]any, error) {
	record, err := r.repo.Update(ctx, id, func(record PT) error {
		return json.Unmarshal(body, record)
	})
	if err != nil {
		return nil, err
	}
	return toMap(record)
}

func (r *entityResource[T, PT]) remove(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}

func (r *entityResource[T, PT]) count(ctx context.Context) (int64, error) {
	return r.repo.Count(ctx)
}

// toMap renders a record as its JSON object form.
func toMap(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return m, nil
}

// newResources builds the kind-keyed resource table the routes are
// driven by. Every descriptor in the views registry has exactly one
// entry here.
func newResources(repos *store.Repositories) map[string]resource {
	return map[string]resource{
		"farmers":        &entityResource[store.Farmer, *store.Farmer]{repo: repos.Farmers},
		"farms":          &entityResource[store.Farm, *store.Farm]{repo: repos.Farms},
		"crops":          &entityResource[store.Crop, *store.Crop]{repo: repos.Crops},
		"crop-cycles":    &entityResource[store.CropCycle, *store.CropCycle]{repo: repos.CropCycles},
		"growth-records": &entityResource[store.CropGrowthRecord, *store.CropGrowthRecord]{repo: repos.GrowthRecords},
		"inventory":      &entityResource[store.Inventory, *store.Inventory]{repo: repos.Inventory},
		"suppliers":      &entityResource[store.Supplier, *store.Supplier]{repo: repos.Suppliers},
		"equipment":      &entityResource[store.Equipment, *store.Equipment]{repo: repos.Equipment},
		"market-prices":  &entityResource[store.MarketPrice, *store.MarketPrice]{repo: repos.MarketPrices},
		"weather":        &entityResource[store.WeatherRecord, *store.WeatherRecord]{repo: repos.Weather},
		"soil-analysis":  &entityResource[store.SoilAnalysis, *store.SoilAnalysis]{repo: repos.SoilAnalyses},
		"tasks":          &entityResource[store.TaskSchedule, *store.TaskSchedule]{repo: repos.Tasks},
	}
}
