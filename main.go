package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/aaronsewall/spotify-popularity-playlist/config"
	"github.com/aaronsewall/spotify-popularity-playlist/dedupe"
	"github.com/aaronsewall/spotify-popularity-playlist/matching"
	"github.com/aaronsewall/spotify-popularity-playlist/spotify"
)

// Version information - set during build
var version = "dev"

// playlistNameSuffix is appended to the artist's name for created playlists
const playlistNameSuffix = " by Popularity"

// Artist name supplied on the command line, for non-interactive runs
var artistFlag string

// Application represents the main application state
type Application struct {
	config  *config.Config
	catalog *spotify.Client
	user    *spotify.UserClient
	scorer  matching.Scorer
}

// NewApplication creates a new application instance
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	scorer, err := matching.ScorerByName(cfg.Dedupe.Scorer)
	if err != nil {
		return nil, fmt.Errorf("invalid dedupe configuration: %w", err)
	}

	catalog, err := spotify.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}

	user, err := spotify.NewUserClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize Spotify user: %w", err)
	}

	return &Application{
		config:  cfg,
		catalog: catalog,
		user:    user,
		scorer:  scorer,
	}, nil
}

// Run executes the playlist loop: search for an artist, pick one, build
// the popularity playlist, repeat until the user declines
func (app *Application) Run(ctx context.Context) error {
	// One non-interactive pass for scripted runs
	if artistFlag != "" {
		return app.runOnce(ctx, artistFlag)
	}

	for {
		var artistName string
		input := huh.NewInput().
			Title("Enter an artist name").
			Validate(requireValue).
			Value(&artistName)
		if err := input.Run(); err != nil {
			return err
		}

		artists, err := app.searchArtists(ctx, artistName)
		if err != nil {
			return err
		}
		if len(artists) == 0 {
			fmt.Println("No results...")
			continue
		}

		var artistIdx int
		selector := huh.NewSelect[int]().
			Title("Select the artist you want").
			Options(artistOptions(artists)...).
			Value(&artistIdx)
		if err := selector.Run(); err != nil {
			return err
		}

		if err := app.buildPlaylist(ctx, artists[artistIdx]); err != nil {
			log.Printf("❌ Failed to build playlist for %s: %v", artists[artistIdx].Name, err)
		}

		var more bool
		confirm := huh.NewConfirm().
			Title("Create another playlist?").
			Value(&more)
		if err := confirm.Run(); err != nil {
			return err
		}
		if !more {
			break
		}
	}

	return nil
}

// runOnce builds the playlist for the first search result without prompting
func (app *Application) runOnce(ctx context.Context, artistName string) error {
	artists, err := app.searchArtists(ctx, artistName)
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		return fmt.Errorf("no artists found for %q", artistName)
	}

	return app.buildPlaylist(ctx, artists[0])
}

// searchArtists runs the artist search behind a spinner
func (app *Application) searchArtists(ctx context.Context, name string) ([]spotify.Artist, error) {
	var artists []spotify.Artist
	search := func(ctx context.Context) error {
		found, err := app.catalog.SearchArtists(ctx, name)
		if err != nil {
			return err
		}
		artists = found
		return nil
	}

	if err := spinner.New().Title("Searching...").Context(ctx).ActionWithErr(search).Run(); err != nil {
		return nil, err
	}

	return artists, nil
}

// buildPlaylist assembles the popularity playlist for the artist: every
// track crediting the artist, most popular first, with near-duplicate
// releases collapsed to their most popular representative
func (app *Application) buildPlaylist(ctx context.Context, artist spotify.Artist) error {
	var tracks []dedupe.Record

	assemble := func(ctx context.Context) error {
		albumIDs, err := app.catalog.ArtistAlbumIDs(ctx, artist.ID)
		if err != nil {
			return err
		}

		artistTracks, err := app.catalog.ArtistTracks(ctx, artist.ID, albumIDs)
		if err != nil {
			return err
		}

		records := toRecords(artistTracks)
		// Most popular first; the engine keeps the first record it sees
		// from each near-duplicate cluster
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Popularity > records[j].Popularity
		})
		tracks = dedupe.ByName(records, app.config.Dedupe.Threshold, app.scorer)
		return nil
	}

	title := fmt.Sprintf("Collecting tracks for %s...", artist.Name)
	if err := spinner.New().Title(title).Context(ctx).ActionWithErr(assemble).Run(); err != nil {
		return err
	}

	if len(tracks) == 0 {
		return fmt.Errorf("no tracks found crediting %s", artist.Name)
	}

	fmt.Printf("🎵 Found %d distinct tracks for %s\n", len(tracks), artist.Name)

	userID, err := app.user.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	playlistName := artist.Name + playlistNameSuffix
	playlistID, err := app.user.CreatePlaylist(ctx, userID, playlistName)
	if err != nil {
		return err
	}

	if err := app.user.AddTracks(ctx, playlistID, recordIDs(tracks)); err != nil {
		return err
	}

	fmt.Printf("✅ Popularity playlist created for: %s (%s)\n", artist.Name, playlistName)
	return nil
}

// toRecords converts catalog tracks to engine records
func toRecords(tracks []spotify.Track) []dedupe.Record {
	records := make([]dedupe.Record, len(tracks))
	for i, track := range tracks {
		records[i] = dedupe.Record{
			ID:         track.ID,
			Name:       track.Name,
			Popularity: track.Popularity,
		}
	}
	return records
}

// recordIDs lists the record IDs in order
func recordIDs(records []dedupe.Record) []string {
	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	return ids
}

// artistOptions renders search results as selectable options, with genres
// attached to tell same-named artists apart
func artistOptions(artists []spotify.Artist) []huh.Option[int] {
	options := make([]huh.Option[int], len(artists))
	for i, artist := range artists {
		options[i] = huh.NewOption(artistLabel(artist), i)
	}
	return options
}

// artistLabel formats one search result for the selection prompt
func artistLabel(artist spotify.Artist) string {
	if len(artist.Genres) == 0 {
		return artist.Name
	}
	return fmt.Sprintf("%s (%s)", artist.Name, strings.Join(artist.Genres, ", "))
}

// requireValue rejects blank prompt input
func requireValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("enter an artist name")
	}
	return nil
}

// parseFlags parses command line flags and updates configuration
func parseFlags(cfg *config.Config) {
	flag.StringVar(&artistFlag, "artist", "", "Build a playlist for this artist without prompting (first search result wins)")

	var threshold int
	flag.IntVar(&threshold, "threshold", cfg.Dedupe.Threshold, "Similarity score two names must exceed to count as duplicates (overrides DEDUPE_THRESHOLD env var)")

	var scorerMode string
	flag.StringVar(&scorerMode, "scorer", cfg.Dedupe.Scorer, "Scoring mode: token-sort or token-set (overrides DEDUPE_SCORER env var)")

	// Version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	// Handle version flag
	if showVersion {
		fmt.Printf("spotify-popularity-playlist version %s\n", version)
		os.Exit(0)
	}

	cfg.Dedupe.Threshold = threshold
	cfg.Dedupe.Scorer = scorerMode
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Parse command line flags
	parseFlags(cfg)

	ctx := context.Background()

	// Create application
	app, err := NewApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Run application
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
