package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/sheets"
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

func parseLink(text string) string {
	return sheets.ParseSpreadsheetLink(text)
}

// skipKeyboard is attached to every question.
func skipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Я не знаю", actionSkip),
		),
	)
}

func modeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Слова", buildModeCallback(string(entities.ModeWord))),
			tgbotapi.NewInlineKeyboardButtonData("Предложения", buildModeCallback(string(entities.ModeSentence))),
		),
	)
}

func sheetKeyboard(titles []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(titles))
	for i, title := range titles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, buildSheetCallback(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func resetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да, сбросить", buildResetCallback(resetConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", buildResetCallback(resetCancel)),
		),
	)
}
