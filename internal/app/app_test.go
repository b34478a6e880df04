package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/patrickprogramme/ytranscript/internal/cache"
	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// fakeUI enregistre les appels.
type fakeUI struct {
	input     string
	promptErr error
	prompted  int
	n         int
	preview   string
	failures  int
	infos     []string
	errs      []string
}

func (f *fakeUI) PromptURL(ctx context.Context) (string, error) {
	f.prompted++
	return f.input, f.promptErr
}

func (f *fakeUI) PrintTranscript(ctx context.Context, n int, preview string) {
	f.n, f.preview = n, preview
}

func (f *fakeUI) PrintFailure(ctx context.Context)         { f.failures++ }
func (f *fakeUI) PrintInfo(ctx context.Context, s string)  { f.infos = append(f.infos, s) }
func (f *fakeUI) PrintError(ctx context.Context, s string) { f.errs = append(f.errs, s) }

type fakeProvider struct {
	text   string
	err    error
	gotIDs []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) ListTranscripts(ctx context.Context, id string) (*transcript.List, error) {
	p.gotIDs = append(p.gotIDs, id)
	if p.err != nil {
		return nil, p.err
	}
	return transcript.NewList(id, []model.SubtitleTrack{{Lang: "en", Source: model.SubSourceManual}}), nil
}

func (p *fakeProvider) Fetch(ctx context.Context, track model.SubtitleTrack) ([]transcript.Entry, error) {
	return []transcript.Entry{{Text: p.text}}, nil
}

type fakeClipboard struct {
	content string
	readErr error
	written string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.content, c.readErr }

func (c *fakeClipboard) WriteAll(s string) error {
	c.written = s
	return nil
}

func factory(p *fakeProvider) ProviderFactory {
	return func(context.Context, *config.Config, *slog.Logger) (transcript.Provider, error) {
		return p, nil
	}
}

func newTestApp(cfg *config.Config, u *fakeUI, flags *CLIFlags, p *fakeProvider, clip *fakeClipboard, diag *bytes.Buffer) *App {
	return New(cfg, u, flags, nil,
		WithProviderFactory(factory(p)),
		WithClipboard(clip),
		WithDiagnostics(diag))
}

func TestRun_PromptAndPreview(t *testing.T) {
	cfg := config.Default()
	u := &fakeUI{input: "https://www.youtube.com/watch?v=abc&t=5"}
	p := &fakeProvider{text: strings.Repeat("a", 1500)}
	var diag bytes.Buffer

	if err := newTestApp(cfg, u, nil, p, &fakeClipboard{}, &diag).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"abc"}, p.gotIDs); diff != "" {
		t.Errorf("video ids mismatch (-want +got):\n%s", diff)
	}
	if u.n != 1000 || len(u.preview) != 1000 {
		t.Errorf("preview n=%d len=%d; want 1000/1000", u.n, len(u.preview))
	}
	if u.failures != 0 || diag.Len() != 0 {
		t.Errorf("unexpected failure output: failures=%d diag=%q", u.failures, diag.String())
	}
}

func TestRun_FailurePrintsMessageAndReturnsNil(t *testing.T) {
	u := &fakeUI{input: "https://www.youtube.com/watch?v=zzz"}
	p := &fakeProvider{err: transcript.ErrTranscriptsDisabled}
	var diag bytes.Buffer

	if err := newTestApp(config.Default(), u, nil, p, &fakeClipboard{}, &diag).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v; want nil on fetch failure", err)
	}
	if u.failures != 1 || u.preview != "" {
		t.Errorf("failures=%d preview=%q; want 1 and empty", u.failures, u.preview)
	}
	if !strings.HasPrefix(diag.String(), "[ERROR]: ") || strings.Count(diag.String(), "\n") != 1 {
		t.Errorf("diag = %q; want a single [ERROR] line", diag.String())
	}
}

func TestRun_URLPriority(t *testing.T) {
	tests := []struct {
		name       string
		flagURL    string
		readClip   bool
		clip       string
		wantID     string
		wantPrompt int
	}{
		{"flag wins", "https://www.youtube.com/watch?v=flag", true, "https://www.youtube.com/watch?v=clip", "flag", 0},
		{"clipboard when enabled", "", true, "https://www.youtube.com/watch?v=clip", "clip", 0},
		{"clipboard ignored when disabled", "", false, "https://www.youtube.com/watch?v=clip", "prompt", 1},
		{"clipboard not a youtube url", "", true, "hello", "prompt", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.ReadClipboard = tc.readClip
			u := &fakeUI{input: "https://www.youtube.com/watch?v=prompt"}
			p := &fakeProvider{text: "x"}
			a := newTestApp(cfg, u, &CLIFlags{URL: tc.flagURL}, p, &fakeClipboard{content: tc.clip}, &bytes.Buffer{})

			if err := a.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(p.gotIDs) != 1 || p.gotIDs[0] != tc.wantID {
				t.Errorf("ids = %v; want [%s]", p.gotIDs, tc.wantID)
			}
			if u.prompted != tc.wantPrompt {
				t.Errorf("prompted = %d; want %d", u.prompted, tc.wantPrompt)
			}
		})
	}
}

func TestRun_CopyToClipboard(t *testing.T) {
	cfg := config.Default()
	cfg.CopyToClipboard = true
	cfg.PreviewChars = 3
	clip := &fakeClipboard{}
	u := &fakeUI{input: "v=abc"}

	if err := newTestApp(cfg, u, nil, &fakeProvider{text: "hello world"}, clip, &bytes.Buffer{}).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if u.preview != "hel" {
		t.Errorf("preview = %q; want hel", u.preview)
	}
	if clip.written != "hello world" {
		t.Errorf("clipboard = %q; want full transcript", clip.written)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("prompt error", func(t *testing.T) {
		u := &fakeUI{promptErr: errors.New("stdin closed")}
		err := newTestApp(config.Default(), u, nil, &fakeProvider{}, &fakeClipboard{}, &bytes.Buffer{}).Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "stdin closed") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("provider error", func(t *testing.T) {
		boom := errors.New("yt-dlp introuvable")
		a := New(config.Default(), &fakeUI{input: "v=a"}, nil, nil,
			WithProviderFactory(func(context.Context, *config.Config, *slog.Logger) (transcript.Provider, error) {
				return nil, boom
			}))
		if err := a.Run(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("err = %v; want %v", err, boom)
		}
	})
}

func TestRun_BadCacheDoesNotBlock(t *testing.T) {
	cfg := config.Default()
	u := &fakeUI{input: "v=abc"}
	a := newTestApp(cfg, u, nil, &fakeProvider{text: "ok"}, &fakeClipboard{}, &bytes.Buffer{})
	a.newCache = func(cache.Options) (cache.Cache, error) { return nil, errors.New("redis down") }

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if u.preview != "ok" {
		t.Errorf("preview = %q; want ok", u.preview)
	}
}

func TestCLIFlags_Apply(t *testing.T) {
	cfg := config.Default()
	(&CLIFlags{Provider: " YTDLP ", Lang: "fr, en,fr", Chars: 200, Copy: true}).Apply(cfg)

	if cfg.Provider != config.ProviderYtDlp || cfg.PreviewChars != 200 || !cfg.CopyToClipboard {
		t.Errorf("cfg = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"fr", "en"}, cfg.Languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}

	// flags vides : config inchangée
	before := config.Default()
	after := config.Default()
	(&CLIFlags{}).Apply(after)
	if diff := cmp.Diff(before, after, cmp.AllowUnexported(config.Config{})); diff != "" {
		t.Errorf("empty flags changed config (-want +got):\n%s", diff)
	}
}
