package main

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/internal/config"
	"gpttransit/internal/handlers"
	"gpttransit/internal/routes"
	"gpttransit/src/logger"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	addr       string
	sessionID  string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gpttransit",
	Short: "Singapore public transport assistant",
	Long: `gpttransit answers questions about MRT journeys, platform crowding,
train disruptions, weather, taxi stands and nearby attractions using an
LLM agent over LTA DataMall, OneMap and data.gov.sg.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		listen := cfg.App.Server.Addr
		if addr != "" {
			listen = addr
		}
		srv := &http.Server{
			Addr:    listen,
			Handler: routes.NewRouter(cfg.Secrets.AgentAPIKeys, handlers.NewChatHandlers(app.Agent, app.Store)),
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", listen).Msg("HTTP server listening")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		reply, err := app.Agent.Invoke(cmd.Context(), sessionID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered to the agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := NewToolset(cfg)
		if err != nil {
			return err
		}
		tools, err := ts.GetTools()
		if err != nil {
			return err
		}
		for _, t := range tools {
			info, err := t.Info(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", info.Name, info.Desc)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config.yaml")
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	askCmd.Flags().StringVarP(&sessionID, "session", "s", "cli", "Conversation session id")

	rootCmd.AddCommand(serveCmd, askCmd, toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
