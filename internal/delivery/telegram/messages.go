// messages.go contains message templates and rendering functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/service"
)

const (
	msgWelcome = "Привет! Я помогу выучить слова из вашего словаря.\n\n" +
		"Подключите таблицу Google Sheets командой /connect, затем начните тренировку: /train.\n" +
		"Полный список команд — /help."

	msgHelp = "/connect — подключить словарь из Google Sheets\n" +
		"/train — начать или продолжить тренировку\n" +
		"/mode — выбрать режим: слова или предложения\n" +
		"/skip — пропустить текущий вопрос\n" +
		"/progress — показать прогресс\n" +
		"/reminder ЧЧ — ежедневное напоминание (UTC), /reminder off — выключить\n" +
		"/reset — начать круг заново"

	msgSendLink = "Пришлите ссылку на ваш файл Google Sheets.\n" +
		"Первая строка таблицы — названия языков, дальше — пары слов."
	msgChooseSheet       = "Отлично! Теперь выберите лист со словарём:"
	msgChooseSheetButton = "Выберите лист кнопкой выше."
	msgSheetAccessFailed = "Не удалось открыть файл или в нём нет листов. Проверьте права доступа."
	msgImportFailed      = "Не удалось прочитать словарь из листа. Проверьте формат таблицы."
	msgImported          = "Готово! Импортировано слов: %d (%s → %s).\nНачните тренировку: /train"

	msgChooseMode          = "Выберите режим тренировки:"
	msgModeSwitched        = "Режим переключён: %s."
	msgFinishQuestionFirst = "Сначала ответьте на текущий вопрос или пропустите его: /skip."

	msgNotConnected    = "Словарь ещё не подключён. Используйте /connect."
	msgNoOpenQuestion  = "Сейчас нет открытого вопроса. Начните тренировку: /train."
	msgAllMastered     = "🎉 Поздравляю! Вы прошли все слова словаря.\nНачать круг заново — /reset."
	msgRoundDone       = "🎉 Это было последнее слово — весь словарь пройден!\nНачать заново: /reset."
	msgLLMUnavailable  = "Не получилось проверить ответ, попробуйте отправить его ещё раз."
	msgEmptyDictionary = "В словаре нет слов. Добавьте пары в таблицу и подключите её заново: /connect."

	msgResetConfirm   = "Сбросить прогресс текущего круга?"
	msgResetDone      = "Прогресс сброшен, набор слов набран заново. Вперёд: /train"
	msgResetCancelled = "Хорошо, продолжаем без сброса."

	msgReminderUsage = "Используйте: /reminder 18 (час по UTC) или /reminder off."
	msgReminderSet   = "Напоминание включено: каждый день в %02d:00 UTC."
	msgReminderOff   = "Напоминание выключено."
	msgReminderNudge = "Пора потренировать слова! 📖 /train"

	msgInternalError  = "Что-то пошло не так. Попробуйте позже."
	msgUnknownCommand = "Неизвестная команда. Список команд: /help"
)

func modeTitle(mode entities.TrainingMode) string {
	if mode == entities.ModeSentence {
		return "перевод предложений"
	}
	return "перевод слов"
}

// renderResult formats the verdict of an answered question.
func renderResult(r *entities.AttemptResult) string {
	var b strings.Builder

	if r.Correct {
		b.WriteString("✅ Верно!")
		if r.Feedback != "" {
			b.WriteString("\n")
			b.WriteString(r.Feedback)
		}
	} else {
		b.WriteString("❌ Неверно.\n")
		b.WriteString(r.Feedback)
		b.WriteString(fmt.Sprintf("\n\nПравильный ответ: %s", r.CorrectAnswer))
	}

	return b.String()
}

// renderSkipped formats a skipped question.
func renderSkipped(r *entities.AttemptResult) string {
	return fmt.Sprintf("Правильный ответ: %s\nЭто слово ещё вернётся.", r.CorrectAnswer)
}

// renderProgress formats the /progress snapshot.
func renderProgress(p *service.TrainingProgress) string {
	return fmt.Sprintf(
		"Режим: %s\nВ работе: %d слов\nПройдено в этом круге: %d из %d",
		modeTitle(p.Mode),
		p.ActiveCount,
		p.PassedCount,
		p.DictionarySize,
	)
}
