package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"unilist/core/loader"
	"unilist/core/logger"
	"unilist/core/middleware/auth"
	"unilist/core/middleware/rayid"

	"unilist/feature/favorites"
	"unilist/feature/integrity"
	"unilist/feature/universities"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "unilist/docs/swagger"
)

// @title University List API
// @version 1.0
// @description Paginated browsing of Turkish universities by province, with persistent favorites.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		logg := rt.logger
		zap.ReplaceGlobals(logg)

		pages, err := rt.fetcher()
		if err != nil {
			return err
		}

		favs, err := rt.favorites()
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		mgr := loader.NewManager()
		mgr.Register(universities.NewFeature(pages, favs, logg, rt.cfg.List, rt.cfg.Server.MaxSessions, rt.cfg.Server.MaxWait()))
		mgr.Register(favorites.NewFeature(favs, logg))
		mgr.Register(integrity.NewFeature(integrity.Deps{
			Storage:       rt.storage,
			StorageConfig: rt.cfg.Storage,
			Source:        rt.cfg.Source,
			Fetcher:       pages,
			DB:            rt.db,
			Redis:         rt.redis,
		}, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("port", rt.cfg.Server.Port),
				zap.String("source", rt.cfg.Source.Kind),
				zap.String("favorites", rt.cfg.Favorites.Backend),
				zap.Bool("auth", rt.cfg.Server.AuthEnabled()),
			)
			errCh <- app.Listen(":" + rt.cfg.Server.Port)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case err := <-errCh:
			_ = mgr.CloseAll()
			return err
		case <-sig:
		}

		logg.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logg.Warn("Server shutdown failed", zap.Error(err))
		}
		return mgr.CloseAll()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
