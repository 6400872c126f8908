package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/image"
	"github.com/BenjaminLTakaki/coverart-api/internal/services"
	coverspotify "github.com/BenjaminLTakaki/coverart-api/internal/spotify"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
)

var (
	generateMood     string
	generateStyle    string
	generateStyleURL string
)

var generateCmd = &cobra.Command{
	Use:   "generate <spotify-url>",
	Short: "Generate a cover for a Spotify playlist or album",
	Long: `Generate runs one cover generation from the command line, without
starting the API server. The result is written to the covers directory
and a JSON record to the data directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0])
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateMood, "mood", "m", "", "mood override for the cover atmosphere")
	generateCmd.Flags().StringVarP(&generateStyle, "style", "s", "", "name of a registered style asset to apply")
	generateCmd.Flags().StringVar(&generateStyleURL, "style-url", "", "direct URL of a style asset to apply")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, spotifyURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	if !cfg.HasSpotifyCredentials() {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
	}

	catalog, err := coverspotify.NewClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	if err != nil {
		return fmt.Errorf("initializing Spotify client: %w", err)
	}

	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)
	imageClient := image.NewStabilityClient(cfg.StabilityAPIKey)

	// No history database for one-shot runs; the JSON record is enough.
	generator := services.NewGeneratorService(cfg, catalog, imageClient, registry, nil)

	colorInfo.Printf("Generating cover for %s\n", spotifyURL)

	result, err := generator.Generate(ctx, services.GenerateOptions{
		SpotifyURL: spotifyURL,
		Mood:       generateMood,
		StyleName:  generateStyle,
		StyleURL:   generateStyleURL,
	})
	if err != nil {
		return err
	}

	record := result.Record
	colorSuccess.Printf("✓ %s\n", record.Title)
	fmt.Printf("  Item:   %s\n", record.ItemName)
	fmt.Printf("  Mood:   %s (%s energy)\n", record.Mood, record.EnergyLevel)
	if len(record.Genres) > 0 {
		fmt.Printf("  Genres: %s\n", strings.Join(record.Genres, ", "))
	}
	for _, entry := range result.Percentages {
		fmt.Printf("    %3d%% %s\n", entry.Percentage, entry.Name)
	}
	if !result.FoundGenres {
		colorWarning.Println("  No genres found on Spotify, used the generic profile")
	}
	fmt.Printf("  Image:  %s\n", record.OutputPath)
	if record.DataFile != "" {
		fmt.Printf("  Record: %s\n", record.DataFile)
	}
	return nil
}
