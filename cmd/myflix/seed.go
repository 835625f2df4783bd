package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
	"github.com/myflix/movie-api/internal/core/service"
	"github.com/myflix/movie-api/internal/infrastructure/config"
	mongostore "github.com/myflix/movie-api/internal/infrastructure/db/mongo"
)

// Default timeout for seed command.
const defaultSeedTimeout = 60 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	moviesFile string
	imagesDir  string
	timeout    time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load movies and images into the database",
		Long: `Creates the collection indexes, inserts the movies listed in a JSON
file and optionally uploads every file of a directory into the images bucket.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.moviesFile, "movies", "", "JSON file holding an array of movies")
	cmd.Flags().StringVar(&cfg.imagesDir, "images", "", "directory of images to upload")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	_ = cmd.MarkFlagRequired("movies")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	movies, err := readMovies(cfg.moviesFile)
	if err != nil {
		return err
	}

	appCfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: appCfg.Mongo.URI, Database: appCfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cmd.Println("Ensuring indexes...")
	if err := mongostore.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	movieRepo := mongostore.NewMovieRepository(db)
	if err := movieRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("movie indexes: %w", err)
	}

	if cfg.imagesDir != "" {
		images, err := mongostore.NewImageStore(db)
		if err != nil {
			return err
		}
		uploaded, err := uploadImages(ctx, images, cfg.imagesDir)
		if err != nil {
			return err
		}
		for name, id := range uploaded {
			cmd.Printf("Uploaded %s as %s\n", name, id)
		}
	}

	n, err := service.NewMovieService(movieRepo, nil, zerolog.Nop()).Import(ctx, movies)
	if err != nil {
		return err
	}
	cmd.Printf("Inserted %d movies\n", n)
	return nil
}

func readMovies(path string) ([]domain.Movie, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read movies file: %w", err)
	}
	var movies []domain.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, fmt.Errorf("parse movies file: %w", err)
	}
	for i, m := range movies {
		if m.Title == "" || m.Description == "" {
			return nil, fmt.Errorf("movie %d: title and description are required", i)
		}
	}
	return movies, nil
}

// uploadImages stores every regular file in dir and returns file name to image id.
func uploadImages(ctx context.Context, store ports.ImageStore, dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}

	uploaded := make(map[string]string, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return uploaded, err
		}
		id, err := store.Upload(ctx, name, contentType, f)
		_ = f.Close()
		if err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", name, err)
		}
		uploaded[name] = id
	}
	return uploaded, nil
}
