package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/service"
	"github.com/mkuznetsov/vocab-llm-bot/internal/storage"
)

func (h *Handler) handleStart(chatID int64) {
	h.send(newHTMLMessage(chatID, msgWelcome))
}

func (h *Handler) handleConnect(userID, chatID int64) {
	h.setup.Set(userID, &storage.SetupState{Stage: storage.StageAwaitingLink})
	h.send(newHTMLMessage(chatID, msgSendLink))
}

// handleTrain opens the next question (starting a round if needed) and
// presents it with the skip button.
func (h *Handler) handleTrain(ctx context.Context, userID, chatID int64) {
	prompt, err := h.trainer.StartTurn(ctx, userID)
	if err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	msg := newHTMLMessage(chatID, prompt.Text)
	msg.ReplyMarkup = skipKeyboard()
	h.send(msg)
}

func (h *Handler) handleMode(chatID int64) {
	msg := newHTMLMessage(chatID, msgChooseMode)
	msg.ReplyMarkup = modeKeyboard()
	h.send(msg)
}

func (h *Handler) handleSkip(ctx context.Context, userID, chatID int64) {
	result, err := h.trainer.Skip(ctx, userID)
	if err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	h.send(newHTMLMessage(chatID, renderSkipped(result)))
	h.continueTraining(ctx, userID, chatID, result)
}

func (h *Handler) handleAnswer(ctx context.Context, userID, chatID int64, text string) {
	result, err := h.trainer.SubmitAnswer(ctx, userID, text)
	if err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	h.send(newHTMLMessage(chatID, renderResult(result)))
	h.continueTraining(ctx, userID, chatID, result)
}

// continueTraining asks the next question right after a verdict, the way
// a human tutor keeps the drill going.
func (h *Handler) continueTraining(ctx context.Context, userID, chatID int64, result *entities.AttemptResult) {
	if result.RoundDone {
		h.send(newHTMLMessage(chatID, msgRoundDone))
		return
	}

	h.handleTrain(ctx, userID, chatID)
}

func (h *Handler) handleProgress(ctx context.Context, userID, chatID int64) {
	progress, err := h.trainer.Progress(ctx, userID)
	if err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	h.send(newHTMLMessage(chatID, renderProgress(progress)))
}

func (h *Handler) handleResetPrompt(chatID int64) {
	msg := newHTMLMessage(chatID, msgResetConfirm)
	msg.ReplyMarkup = resetKeyboard()
	h.send(msg)
}

func (h *Handler) handleReminder(ctx context.Context, userID, chatID int64, args string) {
	args = strings.TrimSpace(args)

	switch {
	case args == "off":
		if err := h.reminders.DisableReminder(ctx, userID); err != nil {
			h.logger.Error("failed to disable reminder", zap.Int64("user_id", userID), zap.Error(err))
			h.send(newHTMLMessage(chatID, msgInternalError))
			return
		}
		h.send(newHTMLMessage(chatID, msgReminderOff))

	case args != "":
		hour, err := strconv.Atoi(args)
		if err != nil || hour < 0 || hour > 23 {
			h.send(newHTMLMessage(chatID, msgReminderUsage))
			return
		}
		if err := h.reminders.SetReminder(ctx, userID, hour); err != nil {
			h.logger.Error("failed to set reminder", zap.Int64("user_id", userID), zap.Error(err))
			h.send(newHTMLMessage(chatID, msgInternalError))
			return
		}
		h.send(newHTMLMessage(chatID, fmt.Sprintf(msgReminderSet, hour)))

	default:
		h.send(newHTMLMessage(chatID, msgReminderUsage))
	}
}

// handleSetupMessage advances the /connect dialog on a free-text message.
func (h *Handler) handleSetupMessage(ctx context.Context, userID, chatID int64, text string, state *storage.SetupState) {
	if state.Stage != storage.StageAwaitingLink {
		h.send(newHTMLMessage(chatID, msgChooseSheetButton))
		return
	}

	spreadsheetID := parseLink(text)
	if spreadsheetID == "" {
		h.send(newHTMLMessage(chatID, msgSendLink))
		return
	}

	titles, err := h.dictionary.ListSheetTitles(ctx, spreadsheetID)
	if err != nil {
		h.logger.Error("failed to list sheets",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgSheetAccessFailed))
		return
	}
	if len(titles) == 0 {
		h.send(newHTMLMessage(chatID, msgSheetAccessFailed))
		return
	}

	h.setup.Set(userID, &storage.SetupState{
		Stage:         storage.StageAwaitingSheet,
		SpreadsheetID: spreadsheetID,
		SheetTitles:   titles,
	})

	msg := newHTMLMessage(chatID, msgChooseSheet)
	msg.ReplyMarkup = sheetKeyboard(titles)
	h.send(msg)
}

// sendTurnError maps engine failures to user-facing replies.
func (h *Handler) sendTurnError(chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		h.send(newHTMLMessage(chatID, msgNotConnected))
	case errors.Is(err, service.ErrEmptySet):
		h.send(newHTMLMessage(chatID, msgAllMastered))
	case errors.Is(err, service.ErrNoOpenQuestion):
		h.send(newHTMLMessage(chatID, msgNoOpenQuestion))
	case errors.Is(err, service.ErrQuestionOpen):
		h.send(newHTMLMessage(chatID, msgFinishQuestionFirst))
	case errors.Is(err, service.ErrVerificationUnavailable):
		h.send(newHTMLMessage(chatID, msgLLMUnavailable))
	case errors.Is(err, service.ErrEmptyDictionary):
		h.send(newHTMLMessage(chatID, msgEmptyDictionary))
	default:
		h.logger.Error("turn failed", zap.Error(err))
		h.send(newHTMLMessage(chatID, msgInternalError))
	}
}
