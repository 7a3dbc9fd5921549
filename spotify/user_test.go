package spotify

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aaronsewall/spotify-popularity-playlist/config"
)

func TestNewUserClientTimesOutWithoutLogin(t *testing.T) {
	cfg := &config.Config{
		Spotify: config.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "http://localhost:18321/callback",
		},
	}

	// Nobody completes the login, so the flow must give up when the
	// context expires instead of blocking forever
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewUserClient(ctx, cfg)
	if err == nil {
		t.Fatal("Expected an error when the login is never completed")
	}
	t.Logf("Expected error without login: %v", err)
}

func TestNewUserClientToleratesStrayCallbackHits(t *testing.T) {
	cfg := &config.Config{
		Spotify: config.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "http://localhost:18432/callback",
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := NewUserClient(ctx, cfg)
		done <- err
	}()

	// Wait until the callback server answers; this first bad hit (no code,
	// wrong state) is also the failure that resolves the flow
	callback := "http://localhost:18432/callback?state=wrong"
	client := &http.Client{Timeout: 250 * time.Millisecond}
	for attempt := 0; attempt < 20; attempt++ {
		resp, err := client.Get(callback)
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(25 * time.Millisecond)
	}

	// Every hit beyond the first consumed outcome must still be answered
	// instead of holding its connection open
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(callback)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Expected an error when the login never completes")
		}
		t.Logf("Expected error after failing callbacks: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("NewUserClient did not return after failing callback hits")
	}
}

func TestNewUserClientRejectsBadRedirectURI(t *testing.T) {
	cfg := &config.Config{
		Spotify: config.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "://not-a-uri",
		},
	}

	_, err := NewUserClient(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected an error for an unparseable redirect URI")
	}
}

func TestRandomState(t *testing.T) {
	first, err := randomState()
	if err != nil {
		t.Fatalf("Failed to generate state: %v", err)
	}

	if len(first) != 16 {
		t.Errorf("Expected a 16 character state, got %d characters", len(first))
	}

	second, err := randomState()
	if err != nil {
		t.Fatalf("Failed to generate state: %v", err)
	}

	if first == second {
		t.Error("Expected two generated states to differ")
	}
}
