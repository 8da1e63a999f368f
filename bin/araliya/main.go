package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	chromem "github.com/philippgille/chromem-go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xcorat/araliya-bot/plugin/llm"
	"github.com/xcorat/araliya-bot/plugin/vectorstore"
	"github.com/xcorat/araliya-bot/server"
	"github.com/xcorat/araliya-bot/server/profile"
	"github.com/xcorat/araliya-bot/server/runner/sessioncleanup"
	"github.com/xcorat/araliya-bot/store"
)

var rootCmd = &cobra.Command{
	Use:   "araliya",
	Short: "Backend API for the Araliya chat assistant",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func run() error {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	p := profile.GetProfile()
	if err := p.Validate(); err != nil {
		return err
	}
	slog.Info("starting araliya bot", "mode", p.Mode, "version", p.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := store.NewSessionStore(p.HistoryWindow)

	// Retrieval is best-effort: the bot still answers without it.
	var vs *vectorstore.Store
	embedFn := chromem.NewEmbeddingFuncOpenAI(p.OpenAIAPIKey, chromem.EmbeddingModelOpenAI3Small)
	vs, err := vectorstore.New(p.Data, embedFn)
	if err != nil {
		slog.Error("failed to initialize vectorstore, continuing without retrieval", "err", err)
		vs = nil
	} else if err := vs.SeedSamplePosts(ctx); err != nil {
		slog.Error("failed to seed vectorstore", "err", err)
	}

	chatter, err := llm.NewOpenAIChatter(p)
	if err != nil {
		return err
	}

	srv := server.NewServer(p, sessions, vs, chatter)
	cleanup := sessioncleanup.NewRunner(sessions, p.SweepInterval, p.SessionTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		cleanup.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
