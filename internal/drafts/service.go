package drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"merchant-console/internal/models"
	"merchant-console/internal/optionmatrix"
)

var (
	ErrTooManyAxes    = errors.New("too many option axes")
	ErrAxisOutOfRange = errors.New("option axis out of range")
	ErrNotApplied     = errors.New("options have not been applied")
	ErrNoVariants     = errors.New("draft has no variants")
)

// ProductCreator posts the finished option product to the backend
type ProductCreator interface {
	CreateOptionProduct(ctx context.Context, storeID int64, req models.CreateOptionProductRequest) error
}

// EventPublisher announces submitted products
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, storeID int64, ownerID string, req models.CreateOptionProductRequest) error
}

// Service runs the draft state machine
type Service struct {
	store     Store
	products  ProductCreator
	publisher EventPublisher
	maxAxes   int
	logger    *logrus.Entry
	now       func() time.Time
	locks     sync.Map
}

// NewService creates a draft service. publisher may be nil.
func NewService(store Store, products ProductCreator, publisher EventPublisher, maxAxes int, logger *logrus.Logger) *Service {
	return &Service{
		store:     store,
		products:  products,
		publisher: publisher,
		maxAxes:   maxAxes,
		logger:    logger.WithField("component", "drafts"),
		now:       time.Now,
	}
}

// MaxAxes is the axis limit enforced by AddAxis and SetAxes
func (s *Service) MaxAxes() int {
	return s.maxAxes
}

func (s *Service) lock(ownerID string) func() {
	m, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) load(ctx context.Context, ownerID string) (*Draft, error) {
	d, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if d == nil {
		d = newDraft(ownerID, s.now())
	}
	return d, nil
}

// mutate loads the draft, applies fn and saves the result
func (s *Service) mutate(ctx context.Context, ownerID string, fn func(d *Draft) error) (*Draft, error) {
	defer s.lock(ownerID)()

	d, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now()
	if err := s.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return d, nil
}

// Get returns the owner's draft, or a fresh idle one
func (s *Service) Get(ctx context.Context, ownerID string) (*Draft, error) {
	return s.load(ctx, ownerID)
}

// SaveDetails replaces the product details. The apply state is unchanged.
func (s *Service) SaveDetails(ctx context.Context, ownerID string, details models.ProductDetails) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		if details.StoreCategoryIDs == nil {
			details.StoreCategoryIDs = []int64{}
		}
		if details.FulfillmentMethod == "" {
			details.FulfillmentMethod = models.FulfillmentDeliveryOnly
		}
		d.ProductDetails = details
		return nil
	})
}

// SetAxes replaces all axes. Generated variants stay until the next Apply.
func (s *Service) SetAxes(ctx context.Context, ownerID string, axes []optionmatrix.Axis) (*Draft, error) {
	if len(axes) > s.maxAxes {
		return nil, ErrTooManyAxes
	}
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		d.Axes = append([]optionmatrix.Axis{}, axes...)
		d.State = StateIdle
		return nil
	})
}

// AddAxis appends an axis
func (s *Service) AddAxis(ctx context.Context, ownerID string, axis optionmatrix.Axis) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		if len(d.Axes) >= s.maxAxes {
			return ErrTooManyAxes
		}
		d.Axes = append(d.Axes, axis)
		d.State = StateIdle
		return nil
	})
}

// RemoveAxis deletes the axis at index
func (s *Service) RemoveAxis(ctx context.Context, ownerID string, index int) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		if index < 0 || index >= len(d.Axes) {
			return ErrAxisOutOfRange
		}
		d.Axes = append(d.Axes[:index:index], d.Axes[index+1:]...)
		d.State = StateIdle
		return nil
	})
}

// Apply regenerates the variant table from the axes, discarding any edits
func (s *Service) Apply(ctx context.Context, ownerID string) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		d.Variants = optionmatrix.BuildVariants(d.Axes)
		d.State = StateApplied
		s.logger.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"axes":     len(d.Axes),
			"variants": len(d.Variants),
		}).Debug("Options applied")
		return nil
	})
}

// UpdateCell edits one numeric cell of the variant table
func (s *Service) UpdateCell(ctx context.Context, ownerID string, row int, field optionmatrix.Field, raw string) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		variants, err := optionmatrix.UpdateVariantField(d.Variants, row, field, raw)
		if err != nil {
			return err
		}
		d.Variants = variants
		return nil
	})
}

// RemoveRow deletes one generated variant
func (s *Service) RemoveRow(ctx context.Context, ownerID string, row int) (*Draft, error) {
	return s.mutate(ctx, ownerID, func(d *Draft) error {
		variants, err := optionmatrix.RemoveVariant(d.Variants, row)
		if err != nil {
			return err
		}
		d.Variants = variants
		return nil
	})
}

// Request builds the backend payload for d
func Request(d *Draft) models.CreateOptionProductRequest {
	details := d.ProductDetails
	if details.StoreCategoryIDs == nil {
		details.StoreCategoryIDs = []int64{}
	}
	return models.CreateOptionProductRequest{
		ProductDetails: details,
		Submission:     optionmatrix.SerializeForSubmission(d.Axes, d.Variants),
	}
}

// Submit posts the applied draft to the backend for storeID and clears it.
// The draft is kept when the backend rejects it.
func (s *Service) Submit(ctx context.Context, ownerID string, storeID int64) (*models.CreateOptionProductRequest, error) {
	defer s.lock(ownerID)()

	d, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if d.State != StateApplied {
		return nil, ErrNotApplied
	}
	if len(d.Variants) == 0 {
		return nil, ErrNoVariants
	}

	req := Request(d)
	if err := s.products.CreateOptionProduct(ctx, storeID, req); err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"store_id": storeID,
		"variants": len(req.Variants),
	})
	log.Info("Option product submitted")

	if s.publisher != nil {
		if err := s.publisher.PublishProductCreated(ctx, storeID, ownerID, req); err != nil {
			log.WithError(err).Warn("Failed to publish product created event")
		}
	}

	if err := s.store.Delete(ctx, ownerID); err != nil {
		log.WithError(err).Warn("Failed to clear submitted draft")
	}
	return &req, nil
}

// Discard drops the owner's draft
func (s *Service) Discard(ctx context.Context, ownerID string) error {
	defer s.lock(ownerID)()
	if err := s.store.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	return nil
}
