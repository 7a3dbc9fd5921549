package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/aaronsewall/spotify-popularity-playlist/batch"
	"github.com/aaronsewall/spotify-popularity-playlist/config"
)

const (
	// searchLimit caps how many artist candidates a search returns.
	searchLimit = 15
	// albumPageLimit is the page size when listing an artist's albums.
	albumPageLimit = 50
	// albumChunkSize is the most album IDs the albums endpoint accepts per call.
	albumChunkSize = 20
	// trackChunkSize is the most track IDs the tracks endpoint accepts per call.
	trackChunkSize = 50
)

// Client wraps the Spotify API client for catalog lookups
type Client struct {
	client *spotify.Client
	config *config.Config
}

// Artist represents an artist returned by a Spotify search
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
}

// Track represents a track with the popularity score attached
type Track struct {
	ID         string
	Name       string
	Popularity int
}

// NewClient creates a new Spotify client with authentication
func NewClient(cfg *config.Config) (*Client, error) {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.Spotify.ClientID),
		spotifyauth.WithClientSecret(cfg.Spotify.ClientSecret),
	)

	// Client credentials grants catalog access only. Playlist writes go
	// through UserClient, which runs the authorization code flow.
	ctx := context.Background()

	// Create token source using client credentials
	token, err := auth.Exchange(ctx, "", oauth2.SetAuthURLParam("grant_type", "client_credentials"))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	client := spotify.New(httpClient)

	return &Client{
		client: client,
		config: cfg,
	}, nil
}

// SearchArtists searches Spotify for artists matching the given name
func (c *Client) SearchArtists(ctx context.Context, name string) ([]Artist, error) {
	query := "artist:" + name
	result, err := c.client.Search(ctx, query, spotify.SearchTypeArtist, spotify.Limit(searchLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}

	if result.Artists == nil {
		return nil, nil
	}

	artists := make([]Artist, 0, len(result.Artists.Artists))
	for _, item := range result.Artists.Artists {
		artists = append(artists, Artist{
			ID:         string(item.ID),
			Name:       item.Name,
			Genres:     item.Genres,
			Popularity: int(item.Popularity),
		})
	}

	return artists, nil
}

// ArtistAlbumIDs fetches the IDs of every album the artist appears on,
// handling pagination
func (c *Client) ArtistAlbumIDs(ctx context.Context, artistID string) ([]string, error) {
	var albumIDs []string
	offset := 0

	for {
		page, err := c.client.GetArtistAlbums(ctx, spotify.ID(artistID), nil, spotify.Limit(albumPageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get artist albums (offset %d): %w", offset, err)
		}

		for _, album := range page.Albums {
			albumIDs = append(albumIDs, string(album.ID))
		}

		if len(page.Albums) < albumPageLimit {
			break
		}
		offset += albumPageLimit
	}

	return albumIDs, nil
}

// ArtistTracks fetches full track information for every track on the given
// albums that credits the artist. Compilations and collaborations often
// carry tracks by other artists, so each album's track list is filtered by
// artist credit.
func (c *Client) ArtistTracks(ctx context.Context, artistID string, albumIDs []string) ([]Track, error) {
	trackIDs, err := c.albumTrackIDs(ctx, artistID, albumIDs)
	if err != nil {
		return nil, err
	}

	return c.fullTracks(ctx, trackIDs)
}

// albumTrackIDs collects the IDs of tracks crediting the artist across the
// given albums, fetching albums in chunks
func (c *Client) albumTrackIDs(ctx context.Context, artistID string, albumIDs []string) ([]string, error) {
	chunks, err := batch.Chunks(albumIDs, albumChunkSize)
	if err != nil {
		return nil, err
	}

	var trackIDs []string
	for idx, chunk := range chunks {
		albums, err := c.client.GetAlbums(ctx, toSpotifyIDs(chunk))
		if err != nil {
			return nil, fmt.Errorf("failed to get albums (chunk %d): %w", idx, err)
		}

		for _, album := range albums {
			if album == nil {
				continue
			}
			for _, track := range album.Tracks.Tracks {
				if creditsArtist(track, artistID) {
					trackIDs = append(trackIDs, string(track.ID))
				}
			}
		}
	}

	return trackIDs, nil
}

// fullTracks fetches full track objects, which carry popularity, in chunks
func (c *Client) fullTracks(ctx context.Context, trackIDs []string) ([]Track, error) {
	chunks, err := batch.Chunks(trackIDs, trackChunkSize)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for idx, chunk := range chunks {
		fullTracks, err := c.client.GetTracks(ctx, toSpotifyIDs(chunk))
		if err != nil {
			return nil, fmt.Errorf("failed to get tracks (chunk %d): %w", idx, err)
		}

		for _, track := range fullTracks {
			if track == nil {
				continue
			}
			tracks = append(tracks, Track{
				ID:         string(track.ID),
				Name:       track.Name,
				Popularity: int(track.Popularity),
			})
		}
	}

	return tracks, nil
}

// creditsArtist reports whether the track credits the given artist
func creditsArtist(track spotify.SimpleTrack, artistID string) bool {
	for _, artist := range track.Artists {
		if string(artist.ID) == artistID {
			return true
		}
	}
	return false
}

// toSpotifyIDs converts plain string IDs to the API client's ID type
func toSpotifyIDs(ids []string) []spotify.ID {
	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
	}
	return spotifyIDs
}
