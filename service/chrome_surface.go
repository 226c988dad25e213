package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	pageElementID  = "catalog-page"
	cloneElementID = "catalog-export-clone"

	defaultSurfaceTimeout = 30 * time.Second
)

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then CHROME_PATH, then common installation paths
func detectChromePath(configured string) string {
	candidates := []string{configured, os.Getenv("CHROME_PATH")}
	candidates = append(candidates,
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	)

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ChromeSurfaceProvider launches a headless Chrome tab per export run
type ChromeSurfaceProvider struct {
	ChromePath string
	// Timeout bounds every single surface operation (render, asset wait, capture)
	Timeout time.Duration
}

var _ SurfaceProvider = (*ChromeSurfaceProvider)(nil)

// NewSurface starts a browser and opens the tab that serves as the off-screen surface
func (p *ChromeSurfaceProvider) NewSurface(ctx context.Context) (RenderSurface, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if chromePath := detectChromePath(p.ChromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		log.Printf("⚠️  ChromeSurface: no Chrome path detected, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// First Run launches the browser
	if err := chromedp.Run(tabCtx, page.Enable()); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultSurfaceTimeout
	}

	return &ChromeSurface{
		ctx:     tabCtx,
		timeout: timeout,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}, nil
}

// ChromeSurface implements RenderSurface on a single headless Chrome tab
type ChromeSurface struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	widthPx  int
	heightPx int
}

var _ RenderSurface = (*ChromeSurface)(nil)

// run executes actions on the tab, bounded by the operation timeout and the caller's context
func (s *ChromeSurface) run(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(opCtx, actions...)
}

// Acquire sizes the viewport to the physical page with a device scale factor of 1
func (s *ChromeSurface) Acquire(ctx context.Context, widthPx, heightPx int) error {
	s.widthPx = widthPx
	s.heightPx = heightPx
	return s.run(ctx,
		chromedp.EmulateViewport(int64(widthPx), int64(heightPx)),
		chromedp.Navigate("about:blank"),
	)
}

// Render swaps the tab document and waits until the page element is in the DOM
func (s *ChromeSurface) Render(ctx context.Context, html string) error {
	return s.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("#"+pageElementID, chromedp.ByQuery),
	)
}

// assetBarrierJS resolves once every image has fired load or error, then waits for fonts.
// The watermark tile is a CSS background, so the page also carries it as a hidden <img>.
const assetBarrierJS = `
(async function() {
	const root = document.getElementById('%s');
	const imgs = root ? Array.from(root.querySelectorAll('img')) : [];
	const results = await Promise.all(imgs.map(img => new Promise(resolve => {
		if (img.complete) {
			resolve(img.naturalWidth > 0);
			return;
		}
		img.addEventListener('load', () => resolve(true), { once: true });
		img.addEventListener('error', () => resolve(false), { once: true });
	})));
	if (document.fonts && document.fonts.ready) {
		await document.fonts.ready;
	}
	return { total: results.length, loaded: results.filter(Boolean).length };
})()`

// WaitForAssets blocks on the real load/error events of every image in the page
func (s *ChromeSurface) WaitForAssets(ctx context.Context) (AssetReport, error) {
	var report AssetReport
	err := s.run(ctx,
		chromedp.Evaluate(fmt.Sprintf(assetBarrierJS, pageElementID), &report, awaitPromise),
	)
	if err != nil {
		return AssetReport{}, fmt.Errorf("asset barrier failed: %w", err)
	}
	return report, nil
}

// correctionJS clones the rendered page, corrects the clone's info strip text and overlays it at
// the origin. The original page stays untouched underneath.
const correctionJS = `
(async function() {
	const live = document.getElementById('%[1]s');
	if (!live) {
		throw new Error('page element not found');
	}
	const previous = document.getElementById('%[2]s');
	if (previous) {
		previous.remove();
	}

	const liveCells = Array.from(live.querySelectorAll('.info-id, .info-desc'));
	const clone = live.cloneNode(true);
	clone.id = '%[2]s';

	if (%[3]t) {
		clone.querySelectorAll('.info, .info-id, .info-desc').forEach(el => {
			el.style.padding = '0';
			el.style.margin = '0';
		});
	}

	Array.from(clone.querySelectorAll('.info-id, .info-desc')).forEach((el, i) => {
		const source = liveCells[i];
		const size = source ? parseFloat(window.getComputedStyle(source).fontSize) : 0;
		if (size > 0) {
			el.style.fontSize = (size * %[4]g) + 'px';
		}
		el.style.lineHeight = '%[5]g';
		el.style.letterSpacing = '%[6]gem';
	});

	clone.style.position = 'absolute';
	clone.style.top = '0';
	clone.style.left = '0';
	clone.style.zIndex = '1000';
	document.body.appendChild(clone);

	await Promise.all(Array.from(clone.querySelectorAll('img')).map(img => img.decode().catch(() => null)));
	return true;
})()`

// ApplyExportCorrections builds the corrected clone that Capture rasterizes
func (s *ChromeSurface) ApplyExportCorrections(ctx context.Context, c FidelityCorrections) error {
	js := fmt.Sprintf(correctionJS, pageElementID, cloneElementID,
		c.ZeroInfoBoxModel, c.FontScale, c.LineHeight, c.LetterSpacingEm)

	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(js, &ok, awaitPromise)); err != nil {
		return fmt.Errorf("failed to apply export corrections: %w", err)
	}
	return nil
}

// Capture screenshots the page rectangle at the requested scale, then drops the clone
func (s *ChromeSurface) Capture(ctx context.Context, scale float64) ([]byte, error) {
	var buf []byte
	err := s.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(s.widthPx),
					Height: float64(s.heightPx),
					Scale:  scale,
				}).
				WithFromSurface(true).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return err
		}),
		chromedp.Evaluate(fmt.Sprintf(`(function() {
			const clone = document.getElementById('%s');
			if (clone) { clone.remove(); }
			return true;
		})()`, cloneElementID), nil),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("failed to capture screenshot: empty image")
	}
	return buf, nil
}

// Release closes the tab and the browser
func (s *ChromeSurface) Release() error {
	if s.cancel == nil {
		return nil
	}
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.cancel = nil
	return err
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
