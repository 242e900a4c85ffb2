package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

// ReminderService sends a daily "time to train" nudge at the hour each
// user picked. Dispatch runs once per hour from a cron schedule.
type ReminderService struct {
	reminderRepo ReminderRepository
	notifier     ReminderNotifier
	logger       *zap.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(reminderRepo ReminderRepository, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		logger:       logger,
	}
}

// SetNotifier sets the notifier (called after the handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// SetReminder enables the daily nudge at the given UTC hour.
func (s *ReminderService) SetReminder(ctx context.Context, userID int64, hourUTC int) error {
	if hourUTC < 0 || hourUTC > 23 {
		return fmt.Errorf("invalid reminder hour: %d", hourUTC)
	}

	return s.reminderRepo.Upsert(ctx, &entities.UserReminder{
		UserID:  userID,
		Enabled: true,
		HourUTC: hourUTC,
	})
}

// DisableReminder turns the daily nudge off.
func (s *ReminderService) DisableReminder(ctx context.Context, userID int64) error {
	return s.reminderRepo.Upsert(ctx, &entities.UserReminder{
		UserID:  userID,
		Enabled: false,
	})
}

// Start begins the hourly dispatch loop and blocks until ctx is done.
func (s *ReminderService) Start(ctx context.Context) {
	s.logger.Info("reminder service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("0 * * * *", func() {
		if err := s.sendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send due reminders", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("reminder service stopped")
}

// sendDueReminders nudges every user whose hour matched and who was not
// nudged yet today.
func (s *ReminderService) sendDueReminders(ctx context.Context) error {
	if s.notifier == nil {
		return fmt.Errorf("notifier not initialized")
	}

	now := time.Now().UTC()

	userIDs, err := s.reminderRepo.GetDueUsers(ctx, now.Hour())
	if err != nil {
		return fmt.Errorf("get due users: %w", err)
	}

	sent := 0
	for _, userID := range userIDs {
		if err := s.notifier.SendTrainingReminder(userID); err != nil {
			s.logger.Error("failed to send reminder",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}

		if err := s.reminderRepo.MarkAsSent(ctx, userID, now); err != nil {
			s.logger.Error("failed to mark reminder as sent",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("reminders processed",
		zap.Int("due", len(userIDs)),
		zap.Int("sent", sent),
	)

	return nil
}
