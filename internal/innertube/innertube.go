// Package innertube liste et télécharge les transcripts via l'API Innertube de
// YouTube (client ANDROID), avec repli sur ytInitialPlayerResponse de la page
// watch quand /player ne renvoie pas de pistes.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrickprogramme/ytranscript/internal/fetch"
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const (
	ProviderName = "innertube"

	DefaultPlayerURL = "https://www.youtube.com/youtubei/v1/player"
	DefaultWatchURL  = "https://www.youtube.com/watch"

	androidVersion = "20.10.38"
	androidUA      = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"
	browserUA      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	initialPlayerResponseMarker = "ytInitialPlayerResponse = "
)

// Client implémente transcript.Provider.
type Client struct {
	fetch     *fetch.Client
	playerURL string
	watchURL  string
	logger    *slog.Logger
}

type Option func(*Client)

// WithEndpoints remplace les URLs YouTube (tests).
func WithEndpoints(playerURL, watchURL string) Option {
	return func(c *Client) {
		if playerURL != "" {
			c.playerURL = playerURL
		}
		if watchURL != "" {
			c.watchURL = watchURL
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New construit le provider ; fc nil => client fetch par défaut.
func New(fc *fetch.Client, opts ...Option) *Client {
	if fc == nil {
		fc = fetch.New(fetch.Options{})
	}
	c := &Client{
		fetch:     fc,
		playerURL: DefaultPlayerURL,
		watchURL:  DefaultWatchURL,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return ProviderName }

// ListTranscripts interroge /player puis, à défaut de pistes, la page watch.
func (c *Client) ListTranscripts(ctx context.Context, videoID string) (*transcript.List, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("%w: empty video id", transcript.ErrVideoUnavailable)
	}

	// les pistes PoToken sont écartées avant de décider du repli
	player, perr := c.player(ctx, videoID)
	if perr == nil {
		if tracks := toTracks(player.tracks()); len(tracks) > 0 {
			return transcript.NewList(videoID, tracks), nil
		}
	}
	c.logger.Debug("innertube player without usable captions, trying watch page",
		slog.String("id", videoID), slog.Any("err", perr))

	page, serr := c.watchPage(ctx, videoID)
	if serr == nil {
		if tracks := toTracks(page.tracks()); len(tracks) > 0 {
			return transcript.NewList(videoID, tracks), nil
		}
	}
	if perr != nil && serr != nil {
		return nil, errors.Join(perr, serr)
	}
	return nil, classify(videoID, player, page)
}

// Fetch télécharge le XML timedtext de la piste et le décode.
func (c *Client) Fetch(ctx context.Context, track model.SubtitleTrack) ([]transcript.Entry, error) {
	if track.URL == "" {
		return nil, fmt.Errorf("innertube: track %s has no url", track.Lang)
	}
	data, err := c.fetch.Bytes(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("innertube: download %s: %w", track.Lang, err)
	}
	format := track.Format
	if format == "" {
		format = model.FormatXML
	}
	entries, err := subtitles.Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("innertube: decode %s: %w", track.Lang, err)
	}
	return entries, nil
}

func (c *Client) player(ctx context.Context, videoID string) (*playerResp, error) {
	body := playerReq{
		VideoID: videoID,
		Context: playerCtx{Client: clientInfo{
			ClientName:        "ANDROID",
			ClientVersion:     androidVersion,
			AndroidSdkVersion: 30,
			Hl:                "en",
			Gl:                "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}
	header := http.Header{
		"User-Agent":               {androidUA},
		"X-Youtube-Client-Name":    {"3"},
		"X-Youtube-Client-Version": {androidVersion},
	}
	var resp playerResp
	if err := c.fetch.PostJSON(ctx, c.playerURL+"?prettyPrint=false", header, body, &resp); err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	return &resp, nil
}

func (c *Client) watchPage(ctx context.Context, videoID string) (*playerResp, error) {
	data, err := c.fetch.Do(ctx, fetch.Request{
		URL: c.watchURL + "?v=" + url.QueryEscape(videoID),
		Header: http.Header{
			"User-Agent":      {browserUA},
			"Accept-Language": {"en-US,en;q=0.9"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	return parseWatchPage(data)
}

// parseWatchPage extrait ytInitialPlayerResponse du HTML de la page watch.
func parseWatchPage(body []byte) (*playerResp, error) {
	idx := bytes.Index(body, []byte(initialPlayerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(body[idx+len(initialPlayerResponseMarker):])
	if raw == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var resp playerResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &resp, nil
}

// extractJSON retourne l'objet JSON équilibré en tête de b, ou nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, ch := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// classify choisit l'erreur la plus parlante quand aucune piste n'est trouvée.
func classify(videoID string, responses ...*playerResp) error {
	for _, r := range responses {
		if r != nil && !r.playable() {
			return fmt.Errorf("%w: %s (%s)", transcript.ErrVideoUnavailable, videoID, r.reason())
		}
	}
	return fmt.Errorf("%w: %s", transcript.ErrTranscriptsDisabled, videoID)
}

// toTracks convertit les captionTracks. Les pistes exigeant un PoToken
// (&exp=xpe) ne sont pas téléchargeables hors navigateur et sont écartées.
func toTracks(in []captionTrack) []model.SubtitleTrack {
	out := make([]model.SubtitleTrack, 0, len(in))
	for _, ct := range in {
		if ct.BaseURL == "" || strings.Contains(ct.BaseURL, "&exp=xpe") {
			continue
		}
		src := model.SubSourceManual
		if ct.Kind == "asr" {
			src = model.SubSourceAutomatic
		}
		out = append(out, model.SubtitleTrack{
			Lang:   ct.LanguageCode,
			Name:   ct.Name.String(),
			Format: model.FormatXML,
			URL:    stripFormat(ct.BaseURL),
			Source: src,
		})
	}
	return out
}

// stripFormat retire le paramètre fmt pour obtenir le XML timedtext par défaut.
func stripFormat(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if !q.Has("fmt") {
		return raw
	}
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String()
}
