package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/config"
	"github.com/mkuznetsov/vocab-llm-bot/internal/delivery/telegram"
	"github.com/mkuznetsov/vocab-llm-bot/internal/llm"
	"github.com/mkuznetsov/vocab-llm-bot/internal/logger"
	"github.com/mkuznetsov/vocab-llm-bot/internal/repository"
	"github.com/mkuznetsov/vocab-llm-bot/internal/service"
	"github.com/mkuznetsov/vocab-llm-bot/internal/sheets"
)

func main() {
	// Local runs keep secrets in .env; absence is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot api", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Запустить бота",
		},
		{
			Command:     "connect",
			Description: "Подключить словарь из Google Sheets",
		},
		{
			Command:     "train",
			Description: "Начать/продолжить тренировку",
		},
		{
			Command:     "mode",
			Description: "Режим: слова или предложения",
		},
		{
			Command:     "skip",
			Description: "Пропустить текущий вопрос",
		},
		{
			Command:     "progress",
			Description: "Показать прогресс",
		},
		{
			Command:     "reminder",
			Description: "Ежедневное напоминание (использование: /reminder 18)",
		},
		{
			Command:     "reset",
			Description: "Начать круг заново",
		},
		{
			Command:     "help",
			Description: "Помощь",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zl.Fatal("database url is not configured", zap.Error(err))
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		zl.Fatal("failed to parse database config", zap.Error(err))
	}
	poolConfig.MaxConns = int32(cfg.DB.MaxConnections)
	poolConfig.MaxConnLifetime = cfg.DB.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		zl.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	// Initialize repositories and services.
	userRepo := repository.NewUserRepository(pool)
	vocabRepo := repository.NewVocabularyRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, zl)

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsPath)
	if err != nil {
		zl.Fatal("failed to create sheets client", zap.Error(err))
	}

	userService := service.NewUserService(userRepo)
	sets := service.NewActiveSetManager(cfg.Trainer.ActiveSetSize)
	trainer := service.NewTrainer(
		vocabRepo,
		sessionRepo,
		sets,
		llmClient,
		llmClient,
		cfg.LLM.Timeout,
		zl,
	)
	dictionaryService := service.NewDictionaryService(sheetsClient, vocabRepo, sessionRepo)
	reminderService := service.NewReminderService(reminderRepo, zl)

	handler := telegram.NewHandler(
		bot,
		zl,
		userService,
		trainer,
		dictionaryService,
		reminderService,
	)
	reminderService.SetNotifier(handler)

	go reminderService.Start(ctx)

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
