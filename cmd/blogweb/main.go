package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dropDatabas3/blogweb/internal/app"
	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env es opcional; sin él se usan las variables del sistema.
	_ = godotenv.Load()

	var cfgPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "blogweb",
		Short:         "Backend de administración del blog (auth, RBAC, autores y posts)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = c
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "blogweb"})
			cmd.SetContext(logger.ToContext(cmd.Context(), logger.L()))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "Ruta al YAML de configuración (env CONFIG_PATH)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			logger.From(ctx).Info("listening", logger.String("addr", cfg.Server.Addr))
			return a.Run(ctx)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes (sólo postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Storage.Driver != "postgres" || cfg.Storage.DSN == "" {
				return &config.ConfigurationError{Key: "storage", Msg: "migrate requires the postgres driver and a dsn"}
			}
			ctx := cmd.Context()
			st, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return app.Migrate(ctx, st)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea permisos, roles y el admin por defecto si faltan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := app.Seed(ctx, cfg, st); err != nil {
				return err
			}
			logger.From(ctx).Info("seed done")
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd, seedCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "configuración inválida: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
