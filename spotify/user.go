package spotify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/aaronsewall/spotify-popularity-playlist/batch"
	"github.com/aaronsewall/spotify-popularity-playlist/config"
)

// playlistChunkSize is the most track IDs a playlist add accepts per call.
const playlistChunkSize = 100

// UserClient wraps a Spotify client authorized to act on the user's behalf
type UserClient struct {
	client *spotify.Client
	config *config.Config
}

// NewUserClient runs the authorization code flow and returns a client that
// can modify the user's public playlists. It serves the OAuth callback on
// the configured redirect URI and opens the consent page in a browser.
func NewUserClient(ctx context.Context, cfg *config.Config) (*UserClient, error) {
	redirect, err := url.Parse(cfg.Spotify.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(cfg.Spotify.RedirectURI),
		spotifyauth.WithClientID(cfg.Spotify.ClientID),
		spotifyauth.WithClientSecret(cfg.Spotify.ClientSecret),
		spotifyauth.WithScopes(spotifyauth.ScopePlaylistModifyPublic),
	)

	// Only the first outcome counts; stray callback hits after it are
	// answered but their results dropped
	clientCh := make(chan *spotify.Client, 1)
	errCh := make(chan error, 1)

	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Couldn't get token", http.StatusForbidden)
			select {
			case errCh <- fmt.Errorf("failed to get token: %w", err):
			default:
			}
			return
		}
		if st := r.FormValue("state"); st != state {
			http.NotFound(w, r)
			select {
			case errCh <- fmt.Errorf("state mismatch: %s != %s", st, state):
			default:
			}
			return
		}

		fmt.Fprintf(w, "Login completed! You can now close this window.")
		select {
		case clientCh <- spotify.New(auth.Client(r.Context(), token)):
		default:
		}
	})

	server := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("callback server failed: %w", err):
			default:
			}
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := auth.AuthURL(state)
	fmt.Println("🔑 Log in to Spotify by visiting the following page in your browser:", authURL)
	openBrowser(authURL)

	select {
	case client := <-clientCh:
		return &UserClient{client: client, config: cfg}, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CurrentUserID resolves the user whose playlists will be modified. A
// configured username takes precedence over the account that completed
// the login.
func (c *UserClient) CurrentUserID(ctx context.Context) (string, error) {
	if c.config.Spotify.Username != "" {
		return c.config.Spotify.Username, nil
	}

	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	return user.ID, nil
}

// CreatePlaylist creates a public playlist for the user and returns its ID
func (c *UserClient) CreatePlaylist(ctx context.Context, userID, name string) (string, error) {
	playlist, err := c.client.CreatePlaylistForUser(ctx, userID, name, "", true, false)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}

	return string(playlist.ID), nil
}

// AddTracks appends tracks to the playlist in the given order, chunked to
// respect the API limit per request
func (c *UserClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	chunks, err := batch.Chunks(trackIDs, playlistChunkSize)
	if err != nil {
		return err
	}

	for idx, chunk := range chunks {
		if _, err := c.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), toSpotifyIDs(chunk)...); err != nil {
			return fmt.Errorf("failed to add tracks to playlist (chunk %d): %w", idx, err)
		}
	}

	return nil
}

// randomState generates a random state string for the OAuth flow
func randomState() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// openBrowser opens the URL in the user's default browser, falling back to
// printing it when no opener is available
func openBrowser(url string) {
	var err error

	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		fmt.Println("Please open the following URL in your browser:", url)
		return
	}

	if err != nil {
		fmt.Println("Failed to open browser. Please open the following URL manually:", url)
	}
}
