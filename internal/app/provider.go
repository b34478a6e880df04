package app

import (
	"context"
	"log/slog"

	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/fetch"
	"github.com/patrickprogramme/ytranscript/internal/innertube"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/internal/yt"
)

// ProviderFactory construit le provider désigné par la config.
type ProviderFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcript.Provider, error)

// NewProvider est la ProviderFactory par défaut.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcript.Provider, error) {
	fc := fetch.New(fetch.Options{
		Timeout:           cfg.HTTP.Timeout,
		MaxBytes:          cfg.HTTP.MaxBytes,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
	})

	switch cfg.Provider {
	case config.ProviderYtDlp:
		warnings, err := cfg.ValidateYtDlpPresence()
		for _, w := range warnings {
			logger.Debug("yt-dlp", slog.String("warning", w))
		}
		if err != nil {
			return nil, err
		}
		// Init yt-dlp (CheckBinary + version)
		dl, version, err := yt.InitYtDlp(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("yt-dlp ready", slog.String("version", version))
		return yt.NewProvider(dl, fc, cfg.YtDlp.Timeout, logger), nil
	default:
		return innertube.New(fc, innertube.WithLogger(logger)), nil
	}
}
