package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/itamhack/matchmaking-service/internal/config"
	"github.com/itamhack/matchmaking-service/internal/repository/postgres"
	"github.com/itamhack/matchmaking-service/internal/service"
	myhttp "github.com/itamhack/matchmaking-service/internal/transport/http"
	"github.com/itamhack/matchmaking-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting matchmaking-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", slog.String("error", err.Error()))
		}
	}()

	participantRepo := postgres.NewParticipantRepository(db, log)
	teamRepo := postgres.NewTeamRepository(db, log)
	swipeRepo := postgres.NewSwipeRepository(db, log)
	inviteRepo := postgres.NewInviteRepository(db, log)
	joinRequestRepo := postgres.NewJoinRequestRepository(db, log)
	preferenceRepo := postgres.NewPreferenceRepository(db, log)

	rosterService := service.NewRosterService(db, log, teamRepo, participantRepo, inviteRepo, joinRequestRepo)
	inviteService := service.NewInviteService(db, log, inviteRepo, teamRepo, participantRepo, rosterService, cfg.Matching.InviteTTL)
	joinRequestService := service.NewJoinRequestService(db, log, joinRequestRepo, teamRepo, participantRepo, rosterService)
	deckService := service.NewDeckService(log, swipeRepo, participantRepo, preferenceRepo, inviteService, cfg.Matching.DeckLimit)
	balanceService := service.NewBalanceService(log, teamRepo, participantRepo)
	ratingService := service.NewRatingService(log, participantRepo, cfg.Matching.DefaultPassingScore)

	srv := myhttp.NewServer(log, deckService, inviteService, joinRequestService, rosterService, balanceService, ratingService)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
