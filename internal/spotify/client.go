package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	maxTracks       = 50
	maxArtists      = 50
	artistBatchSize = 50
	maxTrackSample  = 10
)

// Client wraps the Spotify Web API for playlist and album genre extraction.
// Construct one per process and pass it down; there is no package-level
// client state.
type Client struct {
	client *spotify.Client
}

// NewClient authenticates with the client-credentials flow and returns a
// ready catalog client.
func NewClient(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing Spotify API credentials (set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET)")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{client: spotify.New(httpClient)}, nil
}

// ExtractItemID pulls the playlist or album ID out of a Spotify URL. The ID
// sits between "playlist/" or "album/" and the next "?" or "/".
func ExtractItemID(url string) (id string, isPlaylist bool, err error) {
	var marker string
	switch {
	case strings.Contains(url, "playlist/"):
		marker = "playlist/"
		isPlaylist = true
	case strings.Contains(url, "album/"):
		marker = "album/"
	default:
		return "", false, fmt.Errorf("invalid Spotify URL format: %s", url)
	}

	rest := url[strings.Index(url, marker)+len(marker):]
	rest = strings.SplitN(rest, "?", 2)[0]
	rest = strings.SplitN(rest, "/", 2)[0]
	if rest == "" {
		return "", false, fmt.Errorf("invalid Spotify URL format: %s", url)
	}
	return rest, isPlaylist, nil
}

// ExtractCatalogData resolves a playlist or album URL into the data the
// generation pipeline needs: display name, a sample of track names, and the
// concatenated genre lists of every unique artist on up to 50 tracks.
// Duplicate genre tags across artists are kept; the classifier uses them as
// a frequency signal.
func (c *Client) ExtractCatalogData(ctx context.Context, url string) (*models.CatalogData, error) {
	itemID, isPlaylist, err := ExtractItemID(url)
	if err != nil {
		return nil, err
	}

	var itemName string
	var trackNames []string
	var artistIDs []spotify.ID

	if isPlaylist {
		itemName, trackNames, artistIDs, err = c.playlistTracks(ctx, spotify.ID(itemID))
	} else {
		itemName, trackNames, artistIDs, err = c.albumTracks(ctx, spotify.ID(itemID))
	}
	if err != nil {
		return nil, err
	}

	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("no artists found in tracks")
	}

	uniqueIDs := dedupeIDs(artistIDs)
	if len(uniqueIDs) > maxArtists {
		uniqueIDs = uniqueIDs[:maxArtists]
	}

	logger.Info("Resolved catalog item", logger.Fields{
		"item_name": itemName,
		"artists":   len(uniqueIDs),
	})

	genres, err := c.artistGenres(ctx, uniqueIDs)
	if err != nil {
		return nil, err
	}

	if len(trackNames) > maxTrackSample {
		trackNames = trackNames[:maxTrackSample]
	}

	return &models.CatalogData{
		ItemName:    itemName,
		TrackNames:  trackNames,
		Genres:      genres,
		SpotifyURL:  url,
		FoundGenres: len(genres) > 0,
	}, nil
}

func (c *Client) playlistTracks(ctx context.Context, id spotify.ID) (string, []string, []spotify.ID, error) {
	playlist, err := c.client.GetPlaylist(ctx, id)
	if err != nil {
		return "", nil, nil, fmt.Errorf("fetching playlist: %w", err)
	}

	items := playlist.Tracks.Tracks
	if len(items) > maxTracks {
		items = items[:maxTracks]
	}
	if len(items) == 0 {
		return "", nil, nil, fmt.Errorf("no tracks found in the playlist or album")
	}

	var trackNames []string
	var artistIDs []spotify.ID
	for _, item := range items {
		if item.Track.Name != "" {
			trackNames = append(trackNames, item.Track.Name)
		}
		for _, artist := range item.Track.Artists {
			if artist.ID != "" {
				artistIDs = append(artistIDs, artist.ID)
			}
		}
	}
	return playlist.Name, trackNames, artistIDs, nil
}

func (c *Client) albumTracks(ctx context.Context, id spotify.ID) (string, []string, []spotify.ID, error) {
	album, err := c.client.GetAlbum(ctx, id)
	if err != nil {
		return "", nil, nil, fmt.Errorf("fetching album: %w", err)
	}

	tracks := album.Tracks.Tracks
	if len(tracks) > maxTracks {
		tracks = tracks[:maxTracks]
	}
	if len(tracks) == 0 {
		return "", nil, nil, fmt.Errorf("no tracks found in the playlist or album")
	}

	var trackNames []string
	var artistIDs []spotify.ID
	for _, track := range tracks {
		if track.Name != "" {
			trackNames = append(trackNames, track.Name)
		}
		for _, artist := range track.Artists {
			if artist.ID != "" {
				artistIDs = append(artistIDs, artist.ID)
			}
		}
	}
	return album.Name, trackNames, artistIDs, nil
}

// artistGenres fetches artists in batches of 50 (the API maximum) and
// concatenates their genre lists in request order.
func (c *Client) artistGenres(ctx context.Context, ids []spotify.ID) ([]string, error) {
	var genres []string
	for start := 0; start < len(ids); start += artistBatchSize {
		end := start + artistBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		artists, err := c.client.GetArtists(ctx, ids[start:end]...)
		if err != nil {
			return nil, fmt.Errorf("fetching artists: %w", err)
		}
		for _, artist := range artists {
			if artist != nil {
				genres = append(genres, artist.Genres...)
			}
		}
	}
	return genres, nil
}

// dedupeIDs keeps the first occurrence of each ID, preserving order.
func dedupeIDs(ids []spotify.ID) []spotify.ID {
	seen := make(map[spotify.ID]bool, len(ids))
	unique := make([]spotify.ID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
