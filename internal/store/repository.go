package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"farmledger.dev/farmledger/pkg/metrics"
)

// Record is the contract every persisted entity satisfies through its
// embedded Meta plus a per-model EntityKind.
type Record interface {
	GetID() string
	SetID(id string)
	RecordMeta() *Meta
	EntityKind() string
}

// validate is shared by all repositories; validator instances cache
// struct metadata and are safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Repository implements the four-verb contract for one entity kind.
// T is the model type, PT its pointer type. Every page and API route
// for an entity goes through its Repository; no handler touches GORM
// directly.
type Repository[T any, PT interface {
	*T
	Record
}] struct {
	db      *gorm.DB
	logger  *slog.Logger
	metrics *metrics.StoreMetrics
	kind    string
}

// NewRepository creates a repository for one entity kind.
func NewRepository[T any, PT interface {
	*T
	Record
}](db *gorm.DB, logger *slog.Logger) *Repository[T, PT] {
	kind := PT(new(T)).EntityKind()
	return &Repository[T, PT]{
		db:     db,
		logger: logger.With("entity", kind),
		kind:   kind,
	}
}

// SetMetrics sets the metrics collector for this repository.
func (r *Repository[T, PT]) SetMetrics(m *metrics.StoreMetrics) {
	r.metrics = m
}

// Kind returns the entity kind this repository serves.
func (r *Repository[T, PT]) Kind() string { return r.kind }

// List returns all records for this entity kind in creation order.
func (r *Repository[T, PT]) List(ctx context.Context) ([]T, error) {
	defer r.track("list")()

	var records []T
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		r.fail("list", "query_error")
		return nil, fmt.Errorf("failed to list %s: %w", r.kind, err)
	}
	return records, nil
}

// Get returns the record matched by id, or ErrNotFound.
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	record := PT(new(T))
	err := r.db.WithContext(ctx).First(record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.fail("get", "query_error")
		return nil, fmt.Errorf("failed to load %s %s: %w", r.kind, id, err)
	}
	return record, nil
}

// Count returns the number of records for this entity kind.
func (r *Repository[T, PT]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		r.fail("count", "query_error")
		return 0, fmt.Errorf("failed to count %s: %w", r.kind, err)
	}
	return n, nil
}

// Create validates the draft, assigns an identifier if the caller did
// not provide one, and persists the record. Both timestamps are set to
// the same instant. Nothing is persisted when validation fails.
func (r *Repository[T, PT]) Create(ctx context.Context, record PT) error {
	defer r.track("create")()

	if err := r.validateRecord(record); err != nil {
		r.fail("create", "validation_error")
		return err
	}

	if record.GetID() == "" {
		record.SetID(uuid.NewString())
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.fail("create", "persist_error")
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}

	r.logger.Debug("record created", "id", record.GetID())
	return nil
}

// Update loads the record matched by id, applies the patch, and
// persists the merged record. The id and created_at of the stored
// record survive any patch; updated_at is refreshed. Returns
// ErrNotFound when no record matches, and persists nothing when the
// patch or the merged record is invalid.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, patch func(PT) error) (PT, error) {
	defer r.track("update")()

	record, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.fail("update", "not_found")
		}
		return nil, err
	}

	createdAt := record.RecordMeta().CreatedAt
	if err := patch(record); err != nil {
		r.fail("update", "validation_error")
		return nil, &ValidationError{Fields: []string{"body"}}
	}

	// The identifier and creation time are immutable.
	record.SetID(id)
	record.RecordMeta().CreatedAt = createdAt

	if err := r.validateRecord(record); err != nil {
		r.fail("update", "validation_error")
		return nil, err
	}

	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		r.fail("update", "persist_error")
		return nil, fmt.Errorf("failed to update %s %s: %w", r.kind, id, err)
	}

	r.logger.Debug("record updated", "id", id)
	return record, nil
}

// Delete removes the record matched by id. Deleting an id that does
// not exist is a no-op success so repeated clicks cannot fail.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	defer r.track("delete")()

	if err := r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error; err != nil {
		r.fail("delete", "persist_error")
		return fmt.Errorf("failed to delete %s %s: %w", r.kind, id, err)
	}

	r.logger.Debug("record deleted", "id", id)
	return nil
}

// validateRecord maps validator failures to a ValidationError naming
// the offending fields.
func (r *Repository[T, PT]) validateRecord(record PT) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &ValidationError{Fields: fields}
	}
	return &ValidationError{}
}

// track observes operation duration when metrics are enabled.
func (r *Repository[T, PT]) track(op string) func() {
	if r.metrics == nil {
		return func() {}
	}
	r.metrics.Operations.WithLabelValues(r.kind, op).Inc()
	timer := prometheus.NewTimer(r.metrics.OperationDuration.WithLabelValues(r.kind, op))
	return func() { timer.ObserveDuration() }
}

func (r *Repository[T, PT]) fail(op, reason string) {
	if r.metrics == nil {
		return
	}
	r.metrics.OperationFailures.WithLabelValues(r.kind, op, reason).Inc()
}
