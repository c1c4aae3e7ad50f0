package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

const resultsPage = `<!DOCTYPE html><html><head><title>YouTube</title></head><body>
<div id="content"></div>
<script nonce="x">var ytInitialData = {"contents":{"items":[{"reelItemRenderer":{"videoId":"abcDEF123","headline":"Push-up form"}},{"videoId":"zzz999"}]}};</script>
</body></html>`

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		ok     bool
	}{
		{name: "script blob", markup: resultsPage, want: "abcDEF123", ok: true},
		{name: "raw markup only", markup: `<div data-x='{"videoId":"rawID_-1"}'></div>`, want: "rawID_-1", ok: true},
		{name: "no match", markup: `<html><script>var a = {"title":"none"};</script></html>`, ok: false},
		{name: "empty id ignored", markup: `{"videoId":""}`, ok: false},
		{name: "not html", markup: `"videoId":"plain42"`, want: "plain42", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID([]byte(tt.markup))
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSearchShorts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		_, _ = io.WriteString(w, resultsPage)
	}))
	defer srv.Close()

	s := NewService(srv.URL+"/results?search_query=", srv.Client(), zap.NewNop())
	result, err := s.SearchShorts(context.Background(), "Push-up")
	require.NoError(t, err)
	require.Equal(t, "Push-up shorts", gotQuery)
	require.Equal(t, "https://img.youtube.com/vi/abcDEF123/mqdefault.jpg", result.Thumbnail)
	require.Equal(t, "https://www.youtube.com/shorts/abcDEF123", result.VideoURL)
}

func TestSearchShortsNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html><body>nothing here</body></html>")
	}))
	defer srv.Close()

	_, err := NewService(srv.URL+"/results?search_query=", srv.Client(), nil).SearchShorts(context.Background(), "Zercher squat")
	require.True(t, apperrors.IsNotFound(err))
}

func TestSearchShortsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewService(srv.URL+"/results?search_query=", srv.Client(), nil).SearchShorts(context.Background(), "Squat")
	require.True(t, apperrors.IsUpstream(err))
	require.ErrorContains(t, err, "429")
}
