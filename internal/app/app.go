package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/patrickprogramme/ytranscript/internal/cache"
	"github.com/patrickprogramme/ytranscript/internal/clipboard"
	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/internal/ui"
	"github.com/patrickprogramme/ytranscript/internal/yt"
)

// CLIFlags contient les information venant des flags de l'app
type CLIFlags struct {
	ConfigPath string
	URL        string
	Provider   string
	Lang       string // liste séparée par des virgules
	Chars      int
	Copy       bool
}

// Apply reporte les flags renseignés par-dessus la config (priorité maximale).
func (f *CLIFlags) Apply(cfg *config.Config) {
	if f == nil {
		return
	}
	if f.Provider != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(f.Provider))
	}
	if f.Lang != "" {
		cfg.Languages = config.NormalizeLanguages(strings.Split(f.Lang, ","))
	}
	if f.Chars > 0 {
		cfg.PreviewChars = f.Chars
	}
	if f.Copy {
		cfg.CopyToClipboard = true
	}
}

// App orchestre les différentes dépendances (UI, provider, cache, presse-papier)
type App struct {
	cfg         *config.Config
	ui          ui.Interface
	flags       *CLIFlags
	logger      *slog.Logger
	clip        clipboard.Interface
	newProvider ProviderFactory
	newCache    func(cache.Options) (cache.Cache, error)
	diag        io.Writer
}

type Option func(*App)

// WithClipboard remplace le presse-papier système (tests).
func WithClipboard(c clipboard.Interface) Option {
	return func(a *App) { a.clip = c }
}

// WithProviderFactory remplace la construction du provider (tests).
func WithProviderFactory(f ProviderFactory) Option {
	return func(a *App) { a.newProvider = f }
}

// WithDiagnostics redirige la ligne "[ERROR]: ..." du fetcher.
func WithDiagnostics(w io.Writer) Option {
	return func(a *App) { a.diag = w }
}

// New construit l'application en initialisant les dépendances par défaut.
// Pour les tests, on injecte des implémentations mock via les Option.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, logger *slog.Logger, opts ...Option) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if flags == nil {
		flags = &CLIFlags{}
	}
	a := &App{
		cfg:         cfg,
		ui:          uiClient,
		flags:       flags,
		logger:      logger,
		clip:        clipboard.System{},
		newProvider: NewProvider,
		newCache:    cache.New,
		diag:        os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run exécute le flux principal : URL -> transcript -> aperçu.
// Un transcript introuvable n'est pas une erreur de Run : le message d'échec
// est affiché et Run retourne nil. Seules les erreurs de démarrage remontent.
func (a *App) Run(ctx context.Context) error {
	videoURL, err := a.resolveURL(ctx)
	if err != nil {
		return fmt.Errorf("get url: %w", err)
	}

	p, err := a.newProvider(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("provider %s: %w", a.cfg.Provider, err)
	}

	opts := []transcript.Option{
		transcript.WithLanguages(a.cfg.Languages),
		transcript.WithLogger(a.logger),
		transcript.WithDiagnostics(a.diag),
	}
	if c := a.openCache(); c != nil {
		if closer, ok := c.(io.Closer); ok {
			defer closer.Close()
		}
		opts = append(opts, transcript.WithCache(c, a.cfg.Cache.TTL))
	}

	fetcher := transcript.New(p, opts...)
	a.logger.Debug("fetching transcript",
		slog.String("provider", p.Name()),
		slog.Any("languages", fetcher.Languages()))
	res := fetcher.Get(ctx, videoURL)
	if !res.OK() {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("opération annulée")
		}
		a.ui.PrintFailure(ctx)
		return nil
	}
	a.logger.Debug("transcript fetched",
		slog.String("id", res.VideoID),
		slog.String("tier", res.Tier.String()),
		slog.Bool("cached", res.Cached),
		slog.Int("len", len(res.Text)))

	a.ui.PrintTranscript(ctx, a.cfg.PreviewChars, transcript.Preview(res.Text, a.cfg.PreviewChars))

	if a.cfg.CopyToClipboard {
		if err := a.clip.WriteAll(res.Text); err != nil {
			a.ui.PrintError(ctx, fmt.Sprintf("warning: impossible de copier le transcript: %v", err))
		} else {
			a.ui.PrintInfo(ctx, "Transcript complet copié dans le presse-papier.")
		}
	}
	return nil
}

// resolveURL : priorité flag > presse-papier (si activé et valide) > prompt
func (a *App) resolveURL(ctx context.Context) (string, error) {
	if u := strings.TrimSpace(a.flags.URL); u != "" {
		return u, nil
	}
	if a.cfg.ReadClipboard {
		if clip, err := a.clip.ReadAll(); err == nil && yt.IsYouTubeURL(clip) {
			clip = strings.TrimSpace(clip)
			a.ui.PrintInfo(ctx, fmt.Sprintf("Utilisation de l'URL depuis le presse-papier: %s", clip))
			return clip, nil
		} else if err != nil {
			a.logger.Debug("clipboard unavailable", slog.Any("err", err))
		}
	}
	return a.ui.PromptURL(ctx)
}

// openCache : un cache mal configuré ou injoignable ne bloque pas la récupération.
func (a *App) openCache() cache.Cache {
	c, err := a.newCache(cache.Options{
		Backend:       a.cfg.Cache.Backend,
		DefaultTTL:    a.cfg.Cache.TTL,
		RedisAddr:     a.cfg.Cache.RedisAddr,
		RedisPassword: a.cfg.Cache.RedisPassword,
		RedisDB:       a.cfg.Cache.RedisDB,
	})
	if err != nil {
		a.logger.Warn("cache disabled", slog.Any("err", err))
		return nil
	}
	return c
}
