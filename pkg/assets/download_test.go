package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type stubFetcher struct {
	fills     map[string]string
	fillsErr  error
	rendered  map[string]string
	renderErr map[string]error // keyed by format
}

func (s *stubFetcher) ImageFills(_ context.Context, _ string) (map[string]string, error) {
	return s.fills, s.fillsErr
}

func (s *stubFetcher) RenderNodes(_ context.Context, _ string, ids []string, format string, _ float64) (map[string]string, error) {
	if err := s.renderErr[format]; err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, id := range ids {
		if url, ok := s.rendered[id]; ok {
			out[id] = url
		}
	}
	return out, nil
}

func quietDownloader(dir string, client *http.Client) *Downloader {
	return NewDownloader(DownloadConfig{
		OutputDir: dir,
		HTTP:      client,
		Logger:    log.New(io.Discard),
	})
}

func TestDownloaderRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "bytes-for-%s", r.URL.Path)
	}))
	defer srv.Close()

	api := &stubFetcher{
		fills: map[string]string{"ref-a": srv.URL + "/cdn/ref-a"},
		rendered: map[string]string{
			"2:1": srv.URL + "/cdn/screenshot",
			"4:1": srv.URL + "/cdn/composite",
		},
		renderErr: map[string]error{"svg": errors.New("render budget exhausted")},
	}

	plan := &Plan{Items: []Item{
		{Kind: KindImageFill, Ref: "ref-a", Path: "/images/ref-a.png", Format: "png"},
		{Kind: KindImageFill, Ref: "ref-missing", Path: "/images/ref-missing.png", Format: "png"},
		{Kind: KindIcon, NodeID: "5:1", Path: "/images/icons/star.svg", Format: "svg", Scale: 1},
		{Kind: KindScreenshot, NodeID: "2:1", Path: "/images/screenshot-landing.png", Format: "png", Scale: 2},
		{Kind: KindComposite, NodeID: "4:1", Path: "/images/composite-hero.png", Format: "png", Scale: 2},
		{Kind: KindComposite, NodeID: "4:2", Path: "/images/composite-collage.png", Format: "png", Scale: 2},
	}}

	dir := t.TempDir()
	res, err := quietDownloader(dir, srv.Client()).Run(context.Background(), api, "key", plan)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Saved) != 3 {
		t.Fatalf("saved = %d, want 3: %+v", len(res.Saved), res.Saved)
	}
	savedPaths := []string{"/images/ref-a.png", "/images/screenshot-landing.png", "/images/composite-hero.png"}
	for i, want := range savedPaths {
		if res.Saved[i].Item.Path != want {
			t.Errorf("saved[%d] = %q, want %q", i, res.Saved[i].Item.Path, want)
		}
	}

	if len(res.Skipped) != 3 {
		t.Fatalf("skipped = %d, want 3: %+v", len(res.Skipped), res.Skipped)
	}
	if res.Skipped[0].Item.Ref != "ref-missing" {
		t.Errorf("skipped[0] = %+v, want the unresolvable fill", res.Skipped[0].Item)
	}
	if res.Skipped[1].Item.Kind != KindIcon {
		t.Errorf("skipped[1] = %+v, want the icon behind the failed render", res.Skipped[1].Item)
	}
	if res.Skipped[2].Item.NodeID != "4:2" {
		t.Errorf("skipped[2] = %+v, want the composite the endpoint dropped", res.Skipped[2].Item)
	}
	if len(res.Failed) != 0 {
		t.Errorf("failed = %+v, want none", res.Failed)
	}

	data, err := os.ReadFile(filepath.Join(dir, "images", "ref-a.png"))
	if err != nil {
		t.Fatalf("reading saved fill: %v", err)
	}
	if string(data) != "bytes-for-/cdn/ref-a" {
		t.Errorf("saved fill content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "icons", "star.svg")); !os.IsNotExist(err) {
		t.Errorf("skipped icon should not be on disk, stat err = %v", err)
	}
}

func TestDownloaderClientErrorFailsWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	api := &stubFetcher{fills: map[string]string{"ref-a": srv.URL + "/gone"}}
	plan := &Plan{Items: []Item{
		{Kind: KindImageFill, Ref: "ref-a", Path: "/images/ref-a.png", Format: "png"},
	}}

	res, err := quietDownloader(t.TempDir(), srv.Client()).Run(context.Background(), api, "key", plan)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Failed) != 1 || len(res.Saved) != 0 {
		t.Fatalf("result = %+v, want one failure", res)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (4xx is final)", got)
	}
}

func TestDownloaderRetriesServerErrors(t *testing.T) {
	restore := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = restore }()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	api := &stubFetcher{fills: map[string]string{"ref-a": srv.URL + "/flaky"}}
	plan := &Plan{Items: []Item{
		{Kind: KindImageFill, Ref: "ref-a", Path: "/images/ref-a.png", Format: "png"},
	}}

	dir := t.TempDir()
	res, err := quietDownloader(dir, srv.Client()).Run(context.Background(), api, "key", plan)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Saved) != 1 {
		t.Fatalf("result = %+v, want the retried item saved", res)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	data, err := os.ReadFile(res.Saved[0].Path)
	if err != nil || string(data) != "payload" {
		t.Errorf("saved content = %q, err %v", data, err)
	}
}

func TestDownloaderFillsLookupFailure(t *testing.T) {
	api := &stubFetcher{fillsErr: errors.New("image fills unavailable")}
	plan := &Plan{Items: []Item{
		{Kind: KindImageFill, Ref: "ref-a", Path: "/images/ref-a.png", Format: "png"},
		{Kind: KindImageFill, Ref: "ref-b", Path: "/images/ref-b.png", Format: "png"},
	}}

	res, err := quietDownloader(t.TempDir(), nil).Run(context.Background(), api, "key", plan)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Skipped) != 2 || len(res.Failed) != 0 {
		t.Errorf("result = %+v, want both fills skipped", res)
	}
}

func TestDownloaderEmptyPlan(t *testing.T) {
	res, err := quietDownloader(t.TempDir(), nil).Run(context.Background(), &stubFetcher{}, "key", &Plan{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Saved)+len(res.Skipped)+len(res.Failed) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	restore := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = restore }()

	t.Run("first try succeeds", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("final errors are not retried", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			return errors.New("bad request")
		})
		if err == nil || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("retryable errors get three attempts", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			return Retryable(errors.New("connection reset"))
		})
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			t.Errorf("err = %v, want the last retryable error", err)
		}
	})

	t.Run("recovers mid-sequence", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 3 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retryWithBackoff(ctx, func() error {
			return Retryable(errors.New("transient"))
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
