package services

import (
	"context"
	"fmt"
	"time"

	"stroymart/internal/models"
	"stroymart/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DebtorService interface {
	ListUnsettled(ctx context.Context, limit, offset int) ([]*models.Debtor, error)
	Remind(ctx context.Context, debtorID uuid.UUID) error
	RemindDue(ctx context.Context) (int, error)
	Settle(ctx context.Context, debtorID uuid.UUID) error
}

type debtorService struct {
	debtorRepo repositories.DebtorRepository
	smsSvc     SMSService
	logger     *zap.Logger
}

func NewDebtorService(debtorRepo repositories.DebtorRepository, smsSvc SMSService, logger *zap.Logger) DebtorService {
	return &debtorService{
		debtorRepo: debtorRepo,
		smsSvc:     smsSvc,
		logger:     logger,
	}
}

func (s *debtorService) ListUnsettled(ctx context.Context, limit, offset int) ([]*models.Debtor, error) {
	return s.debtorRepo.ListUnsettled(ctx, limit, offset)
}

// Remind sends the reminder SMS for one debtor and marks it notified.
func (s *debtorService) Remind(ctx context.Context, debtorID uuid.UUID) error {
	debtor, err := s.debtorRepo.GetByID(ctx, debtorID)
	if err != nil {
		return err
	}

	message, err := s.smsSvc.RenderDebtReminder(debtor)
	if err != nil {
		return err
	}
	if err := s.smsSvc.Send(ctx, debtor.Phone, message); err != nil {
		return fmt.Errorf("send reminder sms: %w", err)
	}

	return s.debtorRepo.MarkNotified(ctx, debtorID)
}

// RemindDue sweeps all unsettled debtors whose due date has passed and
// sends each a reminder. One failed send does not stop the sweep.
func (s *debtorService) RemindDue(ctx context.Context) (int, error) {
	due, err := s.debtorRepo.ListDueForReminder(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list due debtors: %w", err)
	}

	sent := 0
	for _, debtor := range due {
		if err := s.Remind(ctx, debtor.ID); err != nil {
			s.logger.Warn("debtor reminder failed",
				zap.String("debtor_id", debtor.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *debtorService) Settle(ctx context.Context, debtorID uuid.UUID) error {
	return s.debtorRepo.Settle(ctx, debtorID)
}
