package cmd

import (
	"fmt"
	"strings"

	"blob-uploader/core/loader"
	"blob-uploader/core/logger"
	"blob-uploader/core/middleware/auth"
	"blob-uploader/core/middleware/rayid"
	"blob-uploader/core/storage"

	"blob-uploader/feature/history"
	"blob-uploader/feature/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the blob uploader server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// Journal is optional; history routes stay disabled without it.
		var recorder upload.Recorder
		repo := openJournal(cfg.Database, logg)
		if repo != nil {
			recorder = repo
			logg.Info("Upload journal enabled", zap.String("driver", cfg.Database.Driver))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		walker := upload.NewWalker(store, afero.NewOsFs(), logg, cfg.Upload.Concurrency)
		svc := upload.NewService(store, walker, cfg.Storage.Container, cfg.Storage.Provider, recorder, logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(upload.NewFeature(svc, splitRoots(cfg.Server.AllowedRoots)))
		mgr.Register(history.NewFeature(repo, logg))

		// RayID first so every log line carries it.
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

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health"}}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed to start: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// splitRoots parses the comma-separated list of directories the API may upload from.
func splitRoots(raw string) []string {
	var roots []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return roots
}
