package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/ojcore.net/internal/adapter/execclient"
	"gitlab.com/ojcore.net/internal/adapter/postgres/judgeserverrepository"
	"gitlab.com/ojcore.net/internal/adapter/postgres/problemrepository"
	"gitlab.com/ojcore.net/internal/adapter/postgres/statsstore"
	"gitlab.com/ojcore.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/ojcore.net/internal/adapter/redis/pendingqueue"
	"gitlab.com/ojcore.net/internal/adapter/redis/rankcache"
	"gitlab.com/ojcore.net/internal/config"
	"gitlab.com/ojcore.net/internal/core/services/admission"
	judgesvc "gitlab.com/ojcore.net/internal/core/services/judge"
	"gitlab.com/ojcore.net/internal/core/services/stats"
	logger2 "gitlab.com/ojcore.net/internal/global/logger"
	http2 "gitlab.com/ojcore.net/internal/http"
	"gitlab.com/ojcore.net/internal/queuemonitor"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judge dispatch service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password, // no password set
		DB:       sysCfg.RedisConfig.DB,       // use default DB
	})

	languages, err := config.LoadLanguageSet(sysCfg.JudgeConfig.LanguagesFile)
	if err != nil {
		panic(err)
	}

	// SECONDARY PORTS
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger)
	problemRepo := problemrepository.NewProblemRepository(db, logger)
	contestRepo := problemrepository.NewContestRepository(db, logger)
	serverRepo := judgeserverrepository.NewJudgeServerRepository(db, logger)
	statsStore := statsstore.NewStore(db, logger)
	queue := pendingqueue.NewQueue(redisClient, logger)
	rankCache := rankcache.NewCache(redisClient, logger)
	execClient := execclient.NewClient(sysCfg.JudgeConfig.ServerToken, sysCfg.JudgeConfig.RequestTimeout, logger)

	//services
	admissionSvc := admission.NewAdmissionService(serverRepo, logger)
	statsSvc := stats.NewStatsService(statsStore, rankCache, logger)
	judgeSvc, err := judgesvc.NewJudgeService(judgesvc.JudgeServiceParams{
		JudgeCfg:       sysCfg.JudgeConfig,
		Languages:      languages,
		SubmissionRepo: submissionRepo,
		ProblemRepo:    problemRepo,
		ContestRepo:    contestRepo,
		Admission:      admissionSvc,
		ExecClient:     execClient,
		Queue:          queue,
		Stats:          statsSvc,
		Logger:         logger,
	})
	if err != nil {
		panic(err)
	}
	spjCompiler := judgesvc.NewSPJCompiler(languages, admissionSvc, execClient, logger)
	serviceProvider := http2.NewServiceProvider(judgeSvc, spjCompiler)

	//server
	httServer := http2.NewServer(8082, "judgeDispatcher", *serviceProvider, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	monitorCtx, stopMonitor := context.WithCancel(ctxBg)
	httServer.Start(ctxBg)
	if !sysCfg.DebugMode {
		queuemonitor.NewMonitor(queue, logger, time.Minute).Start(monitorCtx)
	}
	<-quit
	logger.Info("Shutting down server...")

	stopMonitor()
	httServer.Stop()

	logger.Info("successfully shutdown server")

}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
