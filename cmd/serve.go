package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/spf13/cobra"

	"github.com/cortivus/chat-api/internal/config"
	"github.com/cortivus/chat-api/internal/database"
	"github.com/cortivus/chat-api/internal/llm"
	"github.com/cortivus/chat-api/internal/retrieval"
	"github.com/cortivus/chat-api/internal/server"
	"github.com/cortivus/chat-api/internal/service"
)

// serveCmd runs the chat API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return err
		}

		// The query cache is process-wide state, created once here and
		// injected into the retriever.
		cache := retrieval.NewQueryCache(cfg.Retrieval.CacheTTL)
		retriever := retrieval.NewRetriever(cache)
		llmClient := llm.NewClient(&cfg.LLM)
		chatLogService := service.NewChatLogService(db)

		srv := server.NewHTTPServer(cfg, retriever, llmClient, chatLogService)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logx.Info("Received signal %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
