package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/service"
	"github.com/mkuznetsov/vocab-llm-bot/internal/storage"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID int64, username, firstName, lastName, languageCode string) error
}

type TrainerService interface {
	StartSession(ctx context.Context, userID int64) error
	StartTurn(ctx context.Context, userID int64) (*entities.Prompt, error)
	SubmitAnswer(ctx context.Context, userID int64, text string) (*entities.AttemptResult, error)
	Skip(ctx context.Context, userID int64) (*entities.AttemptResult, error)
	SwitchMode(ctx context.Context, userID int64, mode entities.TrainingMode) error
	Reset(ctx context.Context, userID int64) error
	Progress(ctx context.Context, userID int64) (*service.TrainingProgress, error)
}

type DictionaryService interface {
	ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	Import(ctx context.Context, userID int64, spreadsheetID, sheetTitle string) (int, entities.LanguagePair, error)
}

type ReminderService interface {
	SetReminder(ctx context.Context, userID int64, hourUTC int) error
	DisableReminder(ctx context.Context, userID int64) error
}

type Handler struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	users      UserService
	trainer    TrainerService
	dictionary DictionaryService
	reminders  ReminderService
	setup      *storage.SetupStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	users UserService,
	trainer TrainerService,
	dictionary DictionaryService,
	reminders ReminderService,
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		users:      users,
		trainer:    trainer,
		dictionary: dictionary,
		reminders:  reminders,
		setup:      storage.NewSetupStorage(),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	err := h.users.EnsureUser(
		ctx,
		from.ID,
		from.UserName,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		// A command aborts any in-flight /connect dialog.
		h.setup.Clear(from.ID)

		switch update.Message.Command() {
		case "start":
			h.handleStart(chatID)

		case "connect":
			h.handleConnect(from.ID, chatID)

		case "train":
			h.handleTrain(ctx, from.ID, chatID)

		case "mode":
			h.handleMode(chatID)

		case "skip":
			h.handleSkip(ctx, from.ID, chatID)

		case "progress":
			h.handleProgress(ctx, from.ID, chatID)

		case "reset":
			h.handleResetPrompt(chatID)

		case "reminder":
			h.handleReminder(ctx, from.ID, chatID, update.Message.CommandArguments())

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	// Free text: either a step of the /connect dialog or an answer.
	if state := h.setup.Get(from.ID); state != nil {
		h.handleSetupMessage(ctx, from.ID, chatID, update.Message.Text, state)
		return
	}

	h.handleAnswer(ctx, from.ID, chatID, update.Message.Text)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// SendTrainingReminder implements the reminder notifier: users are nudged
// in their private chat, whose ID equals the user ID.
func (h *Handler) SendTrainingReminder(chatID int64) error {
	msg := newHTMLMessage(chatID, msgReminderNudge)
	if _, err := h.bot.Send(msg); err != nil {
		return err
	}
	return nil
}
