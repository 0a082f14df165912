package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "parley/internal/adapters/http"
	pg "parley/internal/adapters/postgres"
	"parley/internal/adapters/sqlite"
	"parley/internal/config"
	"parley/internal/openai"
	ports "parley/internal/ports"
	"parley/internal/questions"
	"parley/internal/scoring"
	appsvc "parley/internal/services/applications"
	"parley/internal/services/dashboard"
	"parley/internal/services/session"
	reminderworker "parley/internal/workers/remindrunner"
)

// store is the storage surface the services need, satisfied by both the
// postgres and sqlite adapters.
type store interface {
	ports.InterviewRepository
	ports.ApplicationRepository
	ports.ReminderRepository
	Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect error: %v", err)
		}
		st = db
	} else {
		path := cfg.DatabaseURL
		if path == "" {
			path = "parley.db"
		}
		db, err := sqlite.Open(path)
		if err != nil {
			log.Fatalf("sqlite open error: %v", err)
		}
		st = db
		log.Printf("using sqlite store at %s", path)
	}
	defer st.Close()

	var _ ports.InterviewRepository = st
	var _ ports.ApplicationRepository = st
	var _ ports.ReminderRepository = st

	bank, err := questions.LoadBank(cfg.QuestionBank)
	if err != nil {
		log.Fatalf("question bank error: %v", err)
	}

	var ai *openai.Client
	if cfg.OpenAIKey != "" {
		ai = openai.New(cfg.OpenAIKey, cfg.OpenAIModel)
		log.Printf("openai enabled, model %s", cfg.OpenAIModel)
	} else {
		log.Print("openai disabled, using question bank and heuristic scoring only")
	}

	sessions := session.New(st, questions.NewSource(ai, bank, cfg.QuestionCount), scoring.NewEngine(ai))
	dash := dashboard.New(st)
	apps := appsvc.New(st, st, st)

	srv := httpadapter.New(sessions, dash, apps, bank)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.ReminderWorkers > 0 {
		go reminderworker.Run(ctx, st, reminderworker.LogSender{}, cfg.ReminderWorkers, 5*time.Second)
		log.Printf("reminder workers started: %d", cfg.ReminderWorkers)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Printf("listening on %s", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal(fmt.Errorf("server error: %w", err))
	}
}
