package innertube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const timedText = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0" dur="1.5">Hello</text><text start="1.5" dur="2">world</text></transcript>`

// fakeYouTube simule /player, /watch et /timedtext.
type fakeYouTube struct {
	player     string // corps JSON renvoyé par /player
	watch      string // HTML renvoyé par /watch
	playerHits int
	watchHits  int
}

func (f *fakeYouTube) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		f.playerHits++
		if r.Header.Get("X-Youtube-Client-Name") != "3" {
			t.Errorf("missing ANDROID client header")
		}
		var req playerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode player request: %v", err)
		}
		if req.Context.Client.ClientName != "ANDROID" || !req.RacyCheckOk {
			t.Errorf("unexpected player request %+v", req)
		}
		_, _ = io.WriteString(w, f.player)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		f.watchHits++
		_, _ = io.WriteString(w, f.watch)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("fmt") {
			t.Errorf("fmt param should be stripped: %s", r.URL)
		}
		_, _ = io.WriteString(w, timedText)
	})
	return mux
}

func captionsJSON(base string) string {
	return fmt.Sprintf(`{
  "playabilityStatus": {"status": "OK"},
  "captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
    {"baseUrl": "%[1]s/timedtext?v=abc&lang=en&fmt=srv3", "languageCode": "en", "kind": "asr", "name": {"runs": [{"text": "English (auto-generated)"}]}},
    {"baseUrl": "%[1]s/timedtext?v=abc&lang=en", "languageCode": "en", "name": {"simpleText": "English"}},
    {"baseUrl": "%[1]s/timedtext?v=abc&lang=de&exp=xpe", "languageCode": "de"}
  ]}}
}`, base)
}

func newTestClient(srv *httptest.Server) *Client {
	return New(nil, WithEndpoints(srv.URL+"/player", srv.URL+"/watch"))
}

func TestClient_ListAndFetchViaPlayer(t *testing.T) {
	fy := &fakeYouTube{}
	srv := httptest.NewServer(fy.handler(t))
	defer srv.Close()
	fy.player = captionsJSON(srv.URL)

	c := newTestClient(srv)
	list, err := c.ListTranscripts(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if fy.watchHits != 0 {
		t.Errorf("watch page fetched %d times; want 0", fy.watchHits)
	}

	want := []model.SubtitleTrack{
		{Lang: "en", Name: "English (auto-generated)", Format: model.FormatXML,
			URL: srv.URL + "/timedtext?lang=en&v=abc", Source: model.SubSourceAutomatic},
		{Lang: "en", Name: "English", Format: model.FormatXML,
			URL: srv.URL + "/timedtext?v=abc&lang=en", Source: model.SubSourceManual},
	}
	if diff := cmp.Diff(want, list.Tracks); diff != "" {
		t.Fatalf("tracks mismatch (-want +got):\n%s", diff)
	}

	track, err := list.FindManuallyCreated([]string{"en"})
	if err != nil {
		t.Fatalf("FindManuallyCreated: %v", err)
	}
	entries, err := c.Fetch(context.Background(), track)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := transcript.JoinEntries(entries); got != "Hello world" {
		t.Fatalf("joined = %q; want %q", got, "Hello world")
	}
}

func TestClient_FallbackToWatchPage(t *testing.T) {
	fy := &fakeYouTube{player: `{"playabilityStatus": {"status": "LOGIN_REQUIRED", "reason": "Sign in"}}`}
	srv := httptest.NewServer(fy.handler(t))
	defer srv.Close()
	fy.watch = `<html><script>var ytInitialPlayerResponse = ` + captionsJSON(srv.URL) +
		`;var meta = {"a": "}"};</script></html>`

	list, err := newTestClient(srv).ListTranscripts(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if fy.playerHits != 1 || fy.watchHits != 1 {
		t.Errorf("hits player=%d watch=%d; want 1/1", fy.playerHits, fy.watchHits)
	}
	if len(list.Tracks) != 2 {
		t.Fatalf("got %d tracks; want 2", len(list.Tracks))
	}
}

const potokenOnlyPlayer = `{
  "playabilityStatus": {"status": "OK"},
  "captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
    {"baseUrl": "https://www.youtube.com/api/timedtext?v=abc&lang=en&exp=xpe", "languageCode": "en"}
  ]}}
}`

func TestClient_PoTokenTracksFallBackToWatchPage(t *testing.T) {
	fy := &fakeYouTube{player: potokenOnlyPlayer}
	srv := httptest.NewServer(fy.handler(t))
	defer srv.Close()
	fy.watch = `<script>var ytInitialPlayerResponse = ` + captionsJSON(srv.URL) + `;</script>`

	list, err := newTestClient(srv).ListTranscripts(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if fy.watchHits != 1 {
		t.Errorf("watch page fetched %d times; want 1", fy.watchHits)
	}
	if len(list.Tracks) != 2 {
		t.Fatalf("got %d tracks; want 2 from the watch page", len(list.Tracks))
	}
}

func TestClient_ListErrors(t *testing.T) {
	tests := []struct {
		name   string
		player string
		watch  string
		want   error
	}{
		{
			name:   "video unavailable",
			player: `{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`,
			watch:  `<html>no player</html>`,
			want:   transcript.ErrVideoUnavailable,
		},
		{
			name:   "transcripts disabled",
			player: `{"playabilityStatus": {"status": "OK"}}`,
			watch:  `<script>ytInitialPlayerResponse = {"playabilityStatus": {"status": "OK"}};</script>`,
			want:   transcript.ErrTranscriptsDisabled,
		},
		{
			name:   "only PoToken tracks",
			player: potokenOnlyPlayer,
			watch:  `<script>ytInitialPlayerResponse = ` + potokenOnlyPlayer + `;</script>`,
			want:   transcript.ErrTranscriptsDisabled,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fy := &fakeYouTube{player: tc.player, watch: tc.watch}
			srv := httptest.NewServer(fy.handler(t))
			defer srv.Close()

			_, err := newTestClient(srv).ListTranscripts(context.Background(), "abc")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestClient_EmptyVideoID(t *testing.T) {
	_, err := New(nil).ListTranscripts(context.Background(), " ")
	if !errors.Is(err, transcript.ErrVideoUnavailable) {
		t.Fatalf("err = %v; want ErrVideoUnavailable", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};rest`, `{"a":1}`},
		{"nested", `{"a":{"b":{}}} trailing }`, `{"a":{"b":{}}}`},
		{"brace in string", `{"a":"}{"}x`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"\"}"}x`, `{"a":"\"}"}`},
		{"escaped backslash", `{"a":"\\"}x`, `{"a":"\\"}`},
		{"not an object", `[1]`, ""},
		{"unterminated", `{"a":`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(extractJSON([]byte(tc.in))); got != tc.want {
				t.Errorf("extractJSON(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}
