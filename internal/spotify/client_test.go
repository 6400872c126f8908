package spotify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantID       string
		wantPlaylist bool
		wantErr      bool
	}{
		{
			name:         "playlist URL",
			url:          "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			wantID:       "37i9dQZF1DXcBWIGoYBM5M",
			wantPlaylist: true,
		},
		{
			name:   "album URL",
			url:    "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy",
			wantID: "4aawyAB9vmqN3uQ7FjRGTy",
		},
		{
			name:         "playlist URL with query string",
			url:          "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abcdef",
			wantID:       "37i9dQZF1DXcBWIGoYBM5M",
			wantPlaylist: true,
		},
		{
			name:         "playlist URL with trailing path",
			url:          "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M/extra",
			wantID:       "37i9dQZF1DXcBWIGoYBM5M",
			wantPlaylist: true,
		},
		{
			name:    "track URL is rejected",
			url:     "https://open.spotify.com/track/11dFghVXANMlKmJXsNCbNl",
			wantErr: true,
		},
		{
			name:    "playlist URL without an ID",
			url:     "https://open.spotify.com/playlist/",
			wantErr: true,
		},
		{
			name:    "not a URL at all",
			url:     "banana",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, isPlaylist, err := ExtractItemID(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantPlaylist, isPlaylist)
		})
	}
}

func TestDedupeIDs(t *testing.T) {
	ids := dedupeIDs([]spotify.ID{"a", "b", "a", "c", "b"})
	assert.Equal(t, []spotify.ID{"a", "b", "c"}, ids)
}
