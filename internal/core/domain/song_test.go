package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongRecord_WithLyrics(t *testing.T) {
	base := SongRecord{TrackName: "Song A", Artist: "Artist A", Instrumental: false}
	hit := SongRecord{TrackName: "other", Lyrics: "la la", SyncedLyrics: "[00:01.00]la la", Instrumental: true}

	got := base.WithLyrics(hit)

	assert.Equal(t, "Song A", got.TrackName)
	assert.Equal(t, "la la", got.Lyrics)
	assert.Equal(t, "[00:01.00]la la", got.SyncedLyrics)
	assert.False(t, got.Instrumental)
	assert.Empty(t, base.Lyrics, "receiver must not be modified")
}

func TestSongRecord_WithSimilarCopies(t *testing.T) {
	similar := []SongRecord{{TrackName: "B"}}
	got := SongRecord{TrackName: "A"}.WithSimilar(similar)

	similar[0].TrackName = "mutated"

	assert.Equal(t, "B", got.SimilarSongs[0].TrackName)
}

func TestSongRecord_MarshalSimilarSongs(t *testing.T) {
	b, err := json.Marshal(SongRecord{TrackName: "A"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"similar_songs":[]`)

	b, err = json.Marshal(SongRecord{TrackName: "A"}.WithSimilar([]SongRecord{{TrackName: "B"}}))
	require.NoError(t, err)

	var decoded struct {
		SimilarSongs []map[string]any `json:"similar_songs"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.SimilarSongs, 1)
	assert.Equal(t, "B", decoded.SimilarSongs[0]["track_name"])
	assert.Equal(t, []any{}, decoded.SimilarSongs[0]["similar_songs"])
}

func TestDurationConversions(t *testing.T) {
	assert.Equal(t, 3.0, MinutesFromMillis(180000))
	assert.Equal(t, 0.0, MinutesFromMillis(0))
	assert.Equal(t, 0.0, MinutesFromMillis(-5))
	assert.Equal(t, 2.5, MinutesFromSeconds(150))
	assert.Equal(t, 0.0, MinutesFromSeconds(-1))
	assert.Equal(t, 150.0, SecondsFromMinutes(2.5))
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "A, B", JoinNames([]string{"A", "", "  ", "B"}))
	assert.Equal(t, "", JoinNames(nil))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "L", FirstNonEmpty("", "L", "M"))
	assert.Equal(t, "M", FirstNonEmpty("", " ", "M"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
}

func TestCatalogEntry_ToSongRecord(t *testing.T) {
	entry := CatalogEntry{
		TrackName:       "Song",
		Artist:          "Artist",
		Genres:          []string{"Pop", "Dance"},
		AlbumCover:      "http://img/1.jpg",
		DurationSeconds: 210,
		ReleaseYear:     2019,
	}

	rec := entry.ToSongRecord()

	assert.Equal(t, "Pop, Dance", rec.Genre)
	assert.Equal(t, 3.5, rec.DurationMinutes)
	assert.Equal(t, "2019", rec.ReleaseDate)
	assert.Equal(t, "http://img/1.jpg", rec.AlbumArtURL)
}

func TestGenreTokensAndIndex(t *testing.T) {
	tokens := GenreTokens(" Rock, pop ,,ROCK")
	assert.Len(t, tokens, 2)
	assert.Contains(t, tokens, "rock")
	assert.Contains(t, tokens, "pop")

	assert.Equal(t, 0, GenreIndex("Pop"))
	assert.Equal(t, GenreCount-1, GenreIndex("latin"))
	assert.Equal(t, -1, GenreIndex("vaporwave"))
}

func TestErrors(t *testing.T) {
	noMatch := &NoMatchError{Stage: StageFingerprinted}
	assert.True(t, errors.Is(noMatch, ErrNoMatch))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", noMatch), ErrNoMatch))

	cause := errors.New("dial tcp: refused")
	up := NewUpstreamError("acrcloud", cause)
	var target *UpstreamError
	assert.True(t, errors.As(up, &target))
	assert.Equal(t, "acrcloud", target.Service)
	assert.ErrorIs(t, up, cause)

	assert.Same(t, noMatch, NewUpstreamError("acrcloud", noMatch))
	assert.Nil(t, NewUpstreamError("acrcloud", nil))
	assert.Equal(t, "lrclib: status 503", (&UpstreamError{Service: "lrclib", StatusCode: 503}).Error())
}

func TestConversation_Append(t *testing.T) {
	history := Conversation{{Role: RoleUser, Content: "hi"}}
	next := history.Append(ChatMessage{Role: RoleAssistant, Content: "hello"})

	assert.Len(t, history, 1)
	assert.Len(t, next, 2)
	assert.Equal(t, RoleAssistant, next[1].Role)
}
