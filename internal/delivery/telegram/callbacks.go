package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/storage"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	switch data.Action {
	case actionSkip:
		h.handleSkip(ctx, userID, chatID)

	case actionMode:
		h.handleModeCallback(ctx, userID, chatID, data.Params)

	case actionSheet:
		h.handleSheetCallback(ctx, userID, chatID, data.Params)

	case actionReset:
		h.handleResetCallback(ctx, userID, chatID, data.Params)

	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleModeCallback(ctx context.Context, userID, chatID int64, params []string) {
	if len(params) == 0 {
		return
	}

	mode, err := entities.ParseTrainingMode(params[0])
	if err != nil {
		h.logger.Debug("invalid mode in callback", zap.String("mode", params[0]))
		return
	}

	if err := h.trainer.SwitchMode(ctx, userID, mode); err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	h.send(newHTMLMessage(chatID, fmt.Sprintf(msgModeSwitched, modeTitle(mode))))
}

func (h *Handler) handleSheetCallback(ctx context.Context, userID, chatID int64, params []string) {
	state := h.setup.Get(userID)
	if state == nil || state.Stage != storage.StageAwaitingSheet {
		h.send(newHTMLMessage(chatID, msgNotConnected))
		return
	}

	if len(params) == 0 {
		return
	}
	index, err := strconv.Atoi(params[0])
	if err != nil || index < 0 || index >= len(state.SheetTitles) {
		h.logger.Debug("invalid sheet index in callback", zap.Strings("params", params))
		return
	}
	title := state.SheetTitles[index]

	count, langs, err := h.dictionary.Import(ctx, userID, state.SpreadsheetID, title)
	if err != nil {
		h.logger.Error("dictionary import failed",
			zap.Int64("user_id", userID),
			zap.String("sheet", title),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgImportFailed))
		return
	}

	h.setup.Clear(userID)

	if err := h.trainer.StartSession(ctx, userID); err != nil {
		h.sendTurnError(chatID, err)
		return
	}

	h.send(newHTMLMessage(chatID, fmt.Sprintf(msgImported, count, langs.Native, langs.Target)))
}

func (h *Handler) handleResetCallback(ctx context.Context, userID, chatID int64, params []string) {
	if len(params) == 0 {
		return
	}

	switch params[0] {
	case resetConfirm:
		if err := h.trainer.Reset(ctx, userID); err != nil {
			h.sendTurnError(chatID, err)
			return
		}
		// A fresh round over the same dictionary.
		if err := h.trainer.StartSession(ctx, userID); err != nil {
			h.sendTurnError(chatID, err)
			return
		}
		h.send(newHTMLMessage(chatID, msgResetDone))

	case resetCancel:
		h.send(newHTMLMessage(chatID, msgResetCancelled))
	}
}
