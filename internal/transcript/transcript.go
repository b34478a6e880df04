// Package transcript récupère le transcript d'une vidéo YouTube : extraction de
// l'identifiant, sélection manuel puis généré, téléchargement des entrées et
// concaténation du texte.
package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// Erreurs exportées, à tester avec errors.Is sur Result.Err
var (
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrNoTranscriptFound   = errors.New("no transcript found")
)

// Entry est une unité de sous-titre horodatée. Seul Text entre dans le résultat.
type Entry struct {
	Text     string
	Start    float64 // secondes
	Duration float64 // secondes
}

// Provider est l'abstraction du fournisseur de transcripts (yt-dlp, innertube...).
// Elle facilite le test en autorisant une implémentation factice.
type Provider interface {
	// Name identifie le fournisseur (utilisé pour les clés de cache).
	Name() string
	// ListTranscripts liste les pistes disponibles pour videoID.
	ListTranscripts(ctx context.Context, videoID string) (*List, error)
	// Fetch télécharge les entrées, dans l'ordre, de la piste choisie.
	Fetch(ctx context.Context, track model.SubtitleTrack) ([]Entry, error)
}

// List contient les pistes disponibles pour une vidéo.
type List struct {
	VideoID string
	Tracks  []model.SubtitleTrack
}

// NewList construit une List. Fonction pure.
func NewList(videoID string, tracks []model.SubtitleTrack) *List {
	return &List{VideoID: videoID, Tracks: tracks}
}

// FindManuallyCreated retourne la première piste manuelle dont la langue
// correspond, en respectant l'ordre de langs.
func (l *List) FindManuallyCreated(langs []string) (model.SubtitleTrack, error) {
	return l.find(langs, model.SubSourceManual)
}

// FindGenerated retourne la première piste générée dont la langue correspond.
func (l *List) FindGenerated(langs []string) (model.SubtitleTrack, error) {
	return l.find(langs, model.SubSourceAutomatic)
}

func (l *List) find(langs []string, src model.SubSource) (model.SubtitleTrack, error) {
	if l == nil {
		return model.SubtitleTrack{}, fmt.Errorf("%w: empty transcript list", ErrNoTranscriptFound)
	}
	var available []model.SubtitleTrack
	for _, t := range l.Tracks {
		if t.Source == src {
			available = append(available, t)
		}
	}
	for _, lang := range langs {
		for _, t := range available {
			if t.Lang == lang {
				return t, nil
			}
		}
	}
	return model.SubtitleTrack{}, fmt.Errorf("%w: no %s for %v in video %q (available: %s)",
		ErrNoTranscriptFound, src, langs, l.VideoID, model.FormatLangs(model.Langs(available)))
}

// String liste les pistes de façon lisible.
func (l *List) String() string {
	if l == nil {
		return "List(<nil>)"
	}
	var manual, generated []model.SubtitleTrack
	for _, t := range l.Tracks {
		switch t.Source {
		case model.SubSourceManual:
			manual = append(manual, t)
		case model.SubSourceAutomatic:
			generated = append(generated, t)
		}
	}
	return fmt.Sprintf("List(video=%s, manual=[%s], generated=[%s])",
		l.VideoID, model.FormatLangs(model.Langs(manual)), model.FormatLangs(model.Langs(generated)))
}
