package main

import (
	"fmt"
	"log"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-gonic/gin"

	"github.com/hasandi22/Final-year-research---Data-Collection/api"
	"github.com/hasandi22/Final-year-research---Data-Collection/config"
	"github.com/hasandi22/Final-year-research---Data-Collection/database"
	"github.com/hasandi22/Final-year-research---Data-Collection/dataset"
	"github.com/hasandi22/Final-year-research---Data-Collection/middleware"
	"github.com/hasandi22/Final-year-research---Data-Collection/models"
	"github.com/hasandi22/Final-year-research---Data-Collection/repository"
	"github.com/hasandi22/Final-year-research---Data-Collection/services"
	"github.com/hasandi22/Final-year-research---Data-Collection/tts"
	"github.com/hasandi22/Final-year-research---Data-Collection/utils"
)

func main() {
	printStartUpBanner()

	cfg, err := config.LoadConfig(config.DefaultOptions())
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load configuration: %v", err)
	}
	logOutput := utils.SetupLogging(cfg.LogDir)

	// Missing keys are reported, not fatal: the survey still renders.
	configErrors := config.Messages(cfg.Validate())
	for _, msg := range configErrors {
		log.Printf("WARN: [Main] Configuration problem: %s", msg)
	}

	db, err := database.Init(cfg.DatabaseDSN, logOutput)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	sessionRepo := repository.NewSessionRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	instrument, err := models.LoadInstrument()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load questionnaire: %v", err)
	}
	// An unknown provider or backend is already listed in configErrors. The
	// fallbacks fail each call with that error.
	provider, ttsSettings, err := tts.NewProvider(cfg)
	if err != nil {
		log.Printf("WARN: [Main] Speech synthesis disabled: %v", err)
	}
	store, err := dataset.NewStore(cfg)
	if err != nil {
		log.Printf("WARN: [Main] Dataset uploads disabled: %v", err)
	}

	voiceService := services.NewVoiceService(provider, ttsSettings)
	submissionService := services.NewSubmissionService(store, cfg.HFDatasetRepo, cfg.HFDatasetPath)
	sessionService := services.NewSessionService(sessionRepo, instrument, submissionService, voiceService, configErrors)
	log.Println("INFO: [Main] Services initialized.")

	apiHandler := api.NewAPIHandler(
		sessionService,
		voiceService,
		utils.NewTokenManager(cfg.SessionSecret),
		instrument,
		configErrors,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("WARN: [Main] Could not reset trusted proxies: %v", err)
	}
	r.Use(middleware.Logger())
	r.Use(middleware.Cors(nil))
	log.Println("INFO: [Main] Middlewares registered.")

	api.RegisterRoutes(r, apiHandler, cfg.SynthRatePerMin)
	log.Println("INFO: [Main] Routes registered.")

	addr := ":" + cfg.ServerPort
	log.Printf("INFO: [Main] Starting server on %s (tts=%s, dataset=%s)", addr, provider.Name(), cfg.DatasetBackend)
	if err := r.Run(addr); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func printStartUpBanner() {
	banner := figure.NewFigure("VOICE STUDY", "", true)
	banner.Print()

	fmt.Println("======================================================")
	fmt.Printf("Voice interaction survey API (v%s)\n\n", api.Version)
}
