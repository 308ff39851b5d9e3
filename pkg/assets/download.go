package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framespec/pkg/errors"
)

// Fetcher is the slice of the API client the downloader needs to resolve
// asset URLs. Render calls are non-essential: any failure just thins the
// plan instead of aborting it.
type Fetcher interface {
	ImageFills(ctx context.Context, key string) (map[string]string, error)
	RenderNodes(ctx context.Context, key string, ids []string, format string, scale float64) (map[string]string, error)
}

const (
	defaultParallel   = 5
	maxNodesPerRender = 100
)

// DownloadConfig configures a [Downloader].
type DownloadConfig struct {
	// OutputDir is the local root; artifact paths are joined beneath it, so
	// "/images/icons/menu.svg" lands at OutputDir/images/icons/menu.svg.
	OutputDir string

	// Parallel bounds concurrent downloads. Defaults to 5.
	Parallel int

	// HTTP is the client for CDN downloads. Defaults to a 30s timeout.
	HTTP *http.Client

	Logger *log.Logger
}

// Downloader executes an asset [Plan] against the export CDN.
type Downloader struct {
	cfg DownloadConfig
}

// NewDownloader fills config defaults.
func NewDownloader(cfg DownloadConfig) *Downloader {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = defaultParallel
	}
	if cfg.HTTP == nil {
		cfg.HTTP = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Downloader{cfg: cfg}
}

// Outcome records what happened to one planned item.
type Outcome struct {
	Item Item

	// Path is the local file written, empty unless saved.
	Path string

	// Err explains a skip or failure, nil when saved.
	Err error
}

// Result separates the plan's items by what happened to them. Skipped
// items never had a URL to fetch (render failed, budget exhausted, or the
// endpoint returned nothing); failed items had a URL but the download did
// not complete.
type Result struct {
	Saved   []Outcome
	Skipped []Outcome
	Failed  []Outcome
}

// Run resolves URLs for every planned item and downloads them with bounded
// parallelism. It only returns an error when the output directory cannot be
// created; per-item trouble lands in the result buckets instead.
func (d *Downloader) Run(ctx context.Context, api Fetcher, fileKey string, plan *Plan) (*Result, error) {
	res := &Result{}
	if plan == nil || len(plan.Items) == 0 {
		return res, nil
	}
	if err := os.MkdirAll(d.cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create asset directory %s", d.cfg.OutputDir)
	}

	urls := d.resolve(ctx, api, fileKey, plan, res)

	type job struct {
		idx  int
		item Item
		url  string
	}
	var jobs []job
	for i, it := range plan.Items {
		if url, ok := urls[i]; ok {
			jobs = append(jobs, job{idx: i, item: it, url: url})
		}
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, d.cfg.Parallel)
	)
	outcomes := make(map[int]Outcome, len(jobs))

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			dest := filepath.Join(d.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(j.item.Path, "/")))
			err := retryWithBackoff(ctx, func() error {
				return d.fetchFile(ctx, j.url, dest)
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.cfg.Logger.Warn("Asset download failed", "path", j.item.Path, "error", err)
				outcomes[j.idx] = Outcome{Item: j.item, Err: err}
				return
			}
			d.cfg.Logger.Debug("Saved asset", "path", dest)
			outcomes[j.idx] = Outcome{Item: j.item, Path: dest}
		}(j)
	}
	wg.Wait()

	idxs := make([]int, 0, len(outcomes))
	for i := range outcomes {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		o := outcomes[i]
		if o.Err != nil {
			res.Failed = append(res.Failed, o)
		} else {
			res.Saved = append(res.Saved, o)
		}
	}
	return res, nil
}

// resolve maps plan indexes to download URLs. Items without a URL are
// recorded as skipped right away, preserving plan order.
func (d *Downloader) resolve(ctx context.Context, api Fetcher, fileKey string, plan *Plan, res *Result) map[int]string {
	urls := make(map[int]string)
	skip := func(i int, err error) {
		res.Skipped = append(res.Skipped, Outcome{Item: plan.Items[i], Err: err})
	}

	var fills map[string]string
	var fillsErr error
	fillsLoaded := false

	byNode := map[Kind]map[string]string{}
	failedKinds := map[Kind]error{}
	for _, kind := range []Kind{KindIcon, KindScreenshot, KindComposite} {
		items := plan.ByKind(kind)
		if len(items) == 0 {
			continue
		}
		byNode[kind] = d.render(ctx, api, fileKey, items, failedKinds, kind)
	}

	for i, it := range plan.Items {
		switch it.Kind {
		case KindImageFill:
			if !fillsLoaded {
				fills, fillsErr = api.ImageFills(ctx, fileKey)
				fillsLoaded = true
			}
			if fillsErr != nil {
				skip(i, fillsErr)
				continue
			}
			url, ok := fills[it.Ref]
			if !ok || url == "" {
				skip(i, fmt.Errorf("no URL for image ref %s", it.Ref))
				continue
			}
			urls[i] = url
		default:
			if err, failed := failedKinds[it.Kind]; failed {
				skip(i, err)
				continue
			}
			url := byNode[it.Kind][it.NodeID]
			if url == "" {
				skip(i, fmt.Errorf("render returned no URL for node %s", it.NodeID))
				continue
			}
			urls[i] = url
		}
	}
	return urls
}

// render resolves one kind's export URLs, batching the render endpoint.
func (d *Downloader) render(ctx context.Context, api Fetcher, fileKey string, items []Item, failed map[Kind]error, kind Kind) map[string]string {
	format, scale := items[0].Format, items[0].Scale

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.NodeID)
	}

	out := map[string]string{}
	for start := 0; start < len(ids); start += maxNodesPerRender {
		batch := ids[start:min(start+maxNodesPerRender, len(ids))]
		rendered, err := api.RenderNodes(ctx, fileKey, batch, format, scale)
		if err != nil {
			d.cfg.Logger.Debug("Render request failed", "kind", kind, "error", err)
			failed[kind] = err
			return nil
		}
		for id, url := range rendered {
			out[id] = url
		}
	}
	return out
}

// fetchFile downloads one URL to dest, creating parent directories. 5xx
// responses and transport errors are retryable; anything else is final.
func (d *Downloader) fetchFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.cfg.HTTP.Do(req)
	if err != nil {
		return Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return Retryable(fmt.Errorf("status %d fetching asset", resp.StatusCode))
	default:
		return fmt.Errorf("status %d fetching asset", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
