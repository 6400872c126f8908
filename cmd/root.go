package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// rootCmd represents the base command when called without any subcommands.
// A bare invocation starts the API server.
var rootCmd = &cobra.Command{
	Use:   "coverart-api",
	Short: "Generates album cover art and titles from Spotify playlists",
	Long: `coverart-api turns a Spotify playlist or album into album cover art.

It pulls artist genres from the Spotify catalog, classifies them into a
mood and energy profile, composes an image prompt and generates a cover
image plus an album title. Run without arguments to start the API server,
or use the generate subcommand for a one-shot CLI generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadEnv)
}

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
