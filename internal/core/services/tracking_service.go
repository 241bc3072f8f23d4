package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// trackingService implements the TrackingSvcFacade interface
type trackingService struct {
	BaseService
	trackedRepo  portsrepo.TrackedCurrencyRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	userRepo     portsrepo.UserReader
	now          func() time.Time
}

// NewTrackingService creates a new tracking service
func NewTrackingService(
	trackedRepo portsrepo.TrackedCurrencyRepositoryFacade,
	currencyRepo portsrepo.CurrencyReader,
	userRepo portsrepo.UserReader,
) portssvc.TrackingSvcFacade {
	return &trackingService{
		trackedRepo:  trackedRepo,
		currencyRepo: currencyRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

var _ portssvc.TrackingSvcFacade = (*trackingService)(nil)

// maxThreshold is the first value that no longer fits NUMERIC(10,4).
var maxThreshold = decimal.New(1, 6)

func validateThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return apperrors.NewValidationError("threshold must not be negative")
	}
	if threshold.Round(domain.PriceScale).GreaterThanOrEqual(maxThreshold) {
		return apperrors.NewValidationError(fmt.Sprintf("threshold must be less than %s", maxThreshold.String()))
	}
	return nil
}

func (s *trackingService) ListTracked(ctx context.Context, userID string) ([]domain.TrackedCurrency, error) {
	tracked, err := s.trackedRepo.ListTrackedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked currencies: %w", err)
	}
	return tracked, nil
}

func (s *trackingService) TrackCurrency(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) (*domain.TrackedCurrency, error) {
	code := domain.NormalizeCurrencyCode(currencyCode)
	if !domain.IsValidCurrencyCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency code %q", currencyCode))
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", code))
		}
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}

	now := s.now().UTC()
	tracked := domain.TrackedCurrency{
		UserID:       userID,
		CurrencyCode: code,
		Threshold:    threshold,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.trackedRepo.SaveTrackedCurrency(ctx, tracked); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: currency %s is already tracked", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save tracked currency")
		return nil, fmt.Errorf("failed to save tracked currency: %w", err)
	}

	s.LogInfo(ctx, "Currency tracked", "user_id", userID, "currency_code", code)
	return &tracked, nil
}

func (s *trackingService) UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) error {
	if err := validateThreshold(threshold); err != nil {
		return err
	}
	code := domain.NormalizeCurrencyCode(currencyCode)
	if err := s.trackedRepo.UpdateThreshold(ctx, userID, code, threshold, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to update threshold: %w", err)
	}
	return nil
}

func (s *trackingService) UntrackCurrency(ctx context.Context, userID, currencyCode string) error {
	code := domain.NormalizeCurrencyCode(currencyCode)
	if err := s.trackedRepo.DeleteTrackedCurrency(ctx, userID, code); err != nil {
		return fmt.Errorf("failed to untrack currency: %w", err)
	}
	return nil
}
