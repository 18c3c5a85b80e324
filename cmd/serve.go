package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanity-news/sanity/internal/console"
	"github.com/sanity-news/sanity/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web console",
	Long: `Serve hosts the Sanity web console: a single page for submitting
articles, reading verdicts and chatting about them, backed by the
configured prediction backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Console.Port
		if servePort != 0 {
			port = servePort
		}

		srv := server.New(server.Config{Port: port, AllowAll: a.cfg.Console.AllowAll})
		ui := console.New(a.store, a.themes, a.surface, a.submit, a.chat, a.history, a.client)
		ui.RegisterRoutes(srv.Router())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		fmt.Printf("Sanity console: http://localhost:%d\n", port)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured console port")
	rootCmd.AddCommand(serveCmd)
}
