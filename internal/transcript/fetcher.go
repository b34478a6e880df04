package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/cache"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const diagPrefix = "[ERROR]: "

// DefaultLanguages : anglais uniquement.
var DefaultLanguages = []string{"en"}

// Tier identifie le palier de sélection qui a fourni la piste.
type Tier int

const (
	TierNone Tier = iota
	TierManual
	TierGenerated
)

func (t Tier) String() string {
	switch t {
	case TierManual:
		return "manual"
	case TierGenerated:
		return "generated"
	default:
		return "none"
	}
}

// Stage indique l'étape où la récupération a échoué.
type Stage string

const (
	StageList   Stage = "list"
	StageSelect Stage = "select"
	StageFetch  Stage = "fetch"
)

// FetchError porte la cause d'un échec ; à inspecter avec errors.As / errors.Is.
type FetchError struct {
	Stage   Stage
	VideoID string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Stage {
	case StageList:
		return fmt.Sprintf("list transcripts for video %q: %v", e.VideoID, e.Err)
	case StageSelect:
		return fmt.Sprintf("select transcript for video %q: %v", e.VideoID, e.Err)
	default:
		return fmt.Sprintf("fetch transcript for video %q: %v", e.VideoID, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result est le résultat (succès ou échec) d'un appel à Get.
type Result struct {
	VideoID string
	Text    string
	Track   model.SubtitleTrack
	Tier    Tier
	Cached  bool
	Err     error
}

// OK indique si Text est exploitable.
func (r Result) OK() bool { return r.Err == nil }

// Fetcher orchestre extraction -> liste -> sélection -> téléchargement -> jointure.
// Sans état entre deux appels, hors cache optionnel.
type Fetcher struct {
	provider  Provider
	languages []string
	diag      *log.Logger
	logger    *slog.Logger
	cache     cache.Cache
	cacheTTL  time.Duration
}

// Option configure un Fetcher.
type Option func(*Fetcher)

// WithLanguages fixe l'ordre de préférence des langues (défaut : en).
func WithLanguages(langs []string) Option {
	return func(f *Fetcher) {
		if len(langs) > 0 {
			f.languages = append([]string(nil), langs...)
		}
	}
}

// WithDiagnostics redirige la ligne "[ERROR]: ..." émise en cas d'échec.
func WithDiagnostics(w io.Writer) Option {
	return func(f *Fetcher) {
		if w != nil {
			f.diag = log.New(w, diagPrefix, 0)
		}
	}
}

// WithLogger branche un logger structuré pour les traces de debug.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithCache active le cache des résultats réussis.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// New construit un Fetcher autour du provider p.
func New(p Provider, opts ...Option) *Fetcher {
	f := &Fetcher{
		provider:  p,
		languages: DefaultLanguages,
		diag:      log.New(os.Stderr, diagPrefix, 0),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Languages retourne les langues demandées, dans l'ordre.
func (f *Fetcher) Languages() []string {
	return append([]string(nil), f.languages...)
}

// Get récupère le transcript de videoURL. Tout échec produit une seule ligne de
// diagnostic et un Result dont Err est un *FetchError.
func (f *Fetcher) Get(ctx context.Context, videoURL string) Result {
	videoID := ExtractVideoID(videoURL)
	res := f.get(ctx, videoID)
	if !res.OK() {
		f.diag.Print(strings.ReplaceAll(res.Err.Error(), "\n", " "))
	}
	return res
}

func (f *Fetcher) get(ctx context.Context, videoID string) Result {
	key := cache.Key(f.provider.Name(), videoID, f.languages)
	if res, ok := f.fromCache(ctx, key, videoID); ok {
		return res
	}

	list, err := f.provider.ListTranscripts(ctx, videoID)
	if err != nil {
		return failed(videoID, StageList, err)
	}
	f.logger.Debug("transcripts listed", slog.String("list", list.String()))

	track, tier, err := f.selectTrack(list)
	if err != nil {
		return failed(videoID, StageSelect, err)
	}

	entries, err := f.provider.Fetch(ctx, track)
	if err != nil {
		return failed(videoID, StageFetch, err)
	}

	res := Result{
		VideoID: videoID,
		Text:    JoinEntries(entries),
		Track:   track,
		Tier:    tier,
	}
	f.toCache(ctx, key, res)
	return res
}

// selectTier décrit un palier de la sélection ordonnée.
type selectTier struct {
	tier Tier
	find func(*List, []string) (model.SubtitleTrack, error)
}

var selectionOrder = []selectTier{
	{TierManual, (*List).FindManuallyCreated},
	{TierGenerated, (*List).FindGenerated},
}

// selectTrack essaie chaque palier dans l'ordre. Toute erreur d'un palier
// déclenche le suivant ; l'erreur finale regroupe celles de tous les paliers.
func (f *Fetcher) selectTrack(list *List) (model.SubtitleTrack, Tier, error) {
	var errs []error
	for _, st := range selectionOrder {
		track, err := st.find(list, f.languages)
		if err == nil {
			return track, st.tier, nil
		}
		f.logger.Debug("transcript tier unavailable",
			slog.String("tier", st.tier.String()), slog.Any("err", err))
		errs = append(errs, err)
	}
	return model.SubtitleTrack{}, TierNone, errors.Join(errs...)
}

func failed(videoID string, stage Stage, err error) Result {
	return Result{
		VideoID: videoID,
		Err:     &FetchError{Stage: stage, VideoID: videoID, Err: err},
	}
}

// cachedResult est la forme sérialisée d'un Result réussi.
type cachedResult struct {
	Text  string              `json:"text"`
	Track model.SubtitleTrack `json:"track"`
	Tier  Tier                `json:"tier"`
}

// fromCache : une erreur de cache n'est jamais fatale, on retombe sur le provider.
func (f *Fetcher) fromCache(ctx context.Context, key, videoID string) (Result, bool) {
	if f.cache == nil {
		return Result{}, false
	}
	raw, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("cache read failed", slog.String("key", key), slog.Any("err", err))
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	var cr cachedResult
	if err := json.Unmarshal([]byte(raw), &cr); err != nil {
		f.logger.Warn("cache entry undecodable", slog.String("key", key), slog.Any("err", err))
		return Result{}, false
	}
	f.logger.Debug("cache hit", slog.String("key", key))
	return Result{VideoID: videoID, Text: cr.Text, Track: cr.Track, Tier: cr.Tier, Cached: true}, true
}

func (f *Fetcher) toCache(ctx context.Context, key string, res Result) {
	if f.cache == nil {
		return
	}
	b, err := json.Marshal(cachedResult{Text: res.Text, Track: res.Track, Tier: res.Tier})
	if err != nil {
		f.logger.Warn("cache entry unencodable", slog.String("key", key), slog.Any("err", err))
		return
	}
	if err := f.cache.Set(ctx, key, string(b), f.cacheTTL); err != nil {
		f.logger.Warn("cache write failed", slog.String("key", key), slog.Any("err", err))
	}
}
