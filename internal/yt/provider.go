package yt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/fetch"
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const (
	ProviderName          = "ytdlp"
	DefaultExtractTimeout = 2 * time.Minute
)

// marqueurs de yt-dlp signalant une vidéo inaccessible
var unavailableMarkers = []string{
	"Video unavailable",
	"Private video",
	"This video has been removed",
	"Sign in to confirm your age",
	"is not a valid URL",
	"Incomplete YouTube ID",
}

// Provider implémente transcript.Provider au-dessus de yt-dlp.
type Provider struct {
	dl      Interface
	fetch   *fetch.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewProvider : fc nil => client fetch par défaut ; timeout <= 0 => DefaultExtractTimeout.
func NewProvider(dl Interface, fc *fetch.Client, timeout time.Duration, logger *slog.Logger) *Provider {
	if fc == nil {
		fc = fetch.New(fetch.Options{})
	}
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{dl: dl, fetch: fc, timeout: timeout, logger: logger}
}

func (p *Provider) Name() string { return ProviderName }

// ListTranscripts extrait les métadonnées de la vidéo et liste ses pistes,
// manuelles d'abord.
func (p *Provider) ListTranscripts(ctx context.Context, videoID string) (*transcript.List, error) {
	exCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.dl.ExtractRaw(exCtx, WatchURL(videoID))
	if err != nil {
		// yt-dlp tué par le contexte : la sortie ne dit que "signal: killed"
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("opération annulée: %w", cerr)
		}
		if errors.Is(exCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("yt-dlp: délai de %s dépassé: %w", p.timeout, exCtx.Err())
		}
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", transcript.ErrVideoUnavailable, err)
		}
		return nil, fmt.Errorf("extract raw: %w", err)
	}
	raw.LogWarnings(p.logger)

	meta, err := ParseYTDLP(raw.JSON)
	if err != nil {
		return nil, fmt.Errorf("parse ytdlp: %w", err)
	}
	p.logger.Debug("yt-dlp metadata", slog.String("meta", meta.String()))

	if !meta.HasManualSubs() && !meta.HasAutoSubs() {
		return nil, fmt.Errorf("%w: %s", transcript.ErrTranscriptsDisabled, videoID)
	}
	return transcript.NewList(videoID, meta.Tracks()), nil
}

// Fetch télécharge la piste json3 et la convertit en entrées.
func (p *Provider) Fetch(ctx context.Context, track model.SubtitleTrack) ([]transcript.Entry, error) {
	data, err := p.fetch.Bytes(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("download subtitle %s: %w", track.Lang, err)
	}
	entries, err := subtitles.Decode(track.Format, data)
	if err != nil {
		return nil, fmt.Errorf("decode subtitle %s: %w", track.Lang, err)
	}
	return entries, nil
}

func isUnavailable(err error) bool {
	msg := err.Error()
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
