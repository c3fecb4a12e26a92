package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tailortalk/tailortalk/internal/agent"
	"github.com/tailortalk/tailortalk/internal/config"
	"github.com/tailortalk/tailortalk/internal/database"
	"github.com/tailortalk/tailortalk/internal/gcal"
	"github.com/tailortalk/tailortalk/internal/hf"
	"github.com/tailortalk/tailortalk/internal/notify"
	"github.com/tailortalk/tailortalk/internal/server"
	"github.com/tailortalk/tailortalk/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()

	location, fellBack := timeutil.ResolveLocation(cfg.Timezone)
	if fellBack {
		fmt.Printf("Warning: timezone %q not recognized, using UTC\n", cfg.Timezone)
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	llm := initCompletionClient(cfg)
	gcalClient, scheduler := initCalendar(cfg)

	pipeline, err := agent.NewPipeline(llm, scheduler, agent.Options{
		Location:               location,
		DefaultDurationMinutes: cfg.DurationMinutes,
		SearchDays:             cfg.SearchDays,
	})
	if err != nil {
		fatal("building pipeline", err)
	}

	srv := server.New(server.ServerConfig{
		Runner:     pipeline,
		DB:         db,
		GCalClient: gcalClient,
		LLM:        llm,
		Notifier:   initNotifier(cfg),
		Port:       cfg.HTTPPort,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	waitForShutdown(srv)
}

func initCompletionClient(cfg *config.Config) *hf.Client {
	if cfg.HFToken == "" {
		fmt.Println("Warning: HF_TOKEN not set, intent extraction will fall back to defaults")
	}
	return hf.NewClient(cfg.HFToken, cfg.HFModel, cfg.HFMaxTokens, cfg.HFTemperature)
}

func initCalendar(cfg *config.Config) (*gcal.Client, *gcal.Scheduler) {
	gcalClient, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if err != nil {
		fatal("creating calendar client", err)
	}
	if !gcalClient.IsAuthenticated() {
		fmt.Println("Warning: Google Calendar not authenticated; visit the auth URL below.")
		fmt.Println("Approving access redirects back to this server's /oauth/callback, which saves the token.")
		fmt.Println(gcalClient.GetAuthURL())
	}
	return gcalClient, gcal.NewScheduler(gcalClient, cfg.CalendarID, cfg.Timezone)
}

func initNotifier(cfg *config.Config) notify.Notifier {
	notifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailTo)
	if notifier == nil {
		return nil
	}
	if notifier.IsConfigured() {
		fmt.Println("Email confirmation service configured (Resend)")
	}
	return notifier
}

func waitForShutdown(srv *server.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "HTTP server shutdown error: %v\n", err)
	}
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "Failed %s: %v\n", action, err)
	os.Exit(1)
}
