package yt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/transcript"
)

// fakeYtDlp implémente Interface sans exécuter de binaire.
type fakeYtDlp struct {
	raw    *ExtractedRaw
	err    error
	gotURL string

	// hang simule un yt-dlp bloqué, tué à l'annulation du contexte
	hang bool
}

func (f *fakeYtDlp) CheckBinary() error                         { return nil }
func (f *fakeYtDlp) GetVersion(context.Context) (string, error) { return "test", nil }
func (f *fakeYtDlp) ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error) {
	f.gotURL = url
	if f.hang {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: signal: killed", ErrExtract)
	}
	return f.raw, f.err
}

const json3Body = `{"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"Hello"}]},` +
	`{"tStartMs":1000,"dDurationMs":1000,"segs":[{"utf8":"world"}]}]}`

func TestProvider_ListAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, json3Body)
	}))
	defer srv.Close()

	meta := fmt.Sprintf(`{"id":"abc","automatic_captions":{"en-orig":[{"ext":"json3","url":"%s/asr"}]}}`, srv.URL)
	fake := &fakeYtDlp{raw: &ExtractedRaw{JSON: []byte(meta)}}
	p := NewProvider(fake, nil, 0, nil)

	list, err := p.ListTranscripts(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if fake.gotURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("url = %q", fake.gotURL)
	}
	if _, err := list.FindManuallyCreated([]string{"en"}); !errors.Is(err, transcript.ErrNoTranscriptFound) {
		t.Errorf("FindManuallyCreated err = %v; want ErrNoTranscriptFound", err)
	}
	track, err := list.FindGenerated([]string{"en"})
	if err != nil {
		t.Fatalf("FindGenerated: %v", err)
	}

	entries, err := p.Fetch(context.Background(), track)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := transcript.JoinEntries(entries); got != "Hello world" {
		t.Fatalf("joined = %q", got)
	}
}

func TestProvider_ListErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeYtDlp
		want error
	}{
		{
			name: "unavailable",
			fake: &fakeYtDlp{err: fmt.Errorf("%w: exit status 1, output: ERROR: [youtube] x: Video unavailable", ErrExtract)},
			want: transcript.ErrVideoUnavailable,
		},
		{
			name: "no subtitles",
			fake: &fakeYtDlp{raw: &ExtractedRaw{JSON: []byte(`{"id":"abc"}`)}},
			want: transcript.ErrTranscriptsDisabled,
		},
		{
			name: "other failure",
			fake: &fakeYtDlp{err: fmt.Errorf("%w: exit status 2", ErrExtract)},
			want: ErrExtract,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProvider(tc.fake, nil, 0, nil).ListTranscripts(context.Background(), "abc")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestProvider_ListCancellation(t *testing.T) {
	t.Run("parent canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewProvider(&fakeYtDlp{hang: true}, nil, time.Minute, nil).ListTranscripts(ctx, "abc")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v; want context.Canceled", err)
		}
	})
	t.Run("extraction timeout", func(t *testing.T) {
		_, err := NewProvider(&fakeYtDlp{hang: true}, nil, 10*time.Millisecond, nil).ListTranscripts(context.Background(), "abc")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v; want context.DeadlineExceeded", err)
		}
	})
}
