package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// DriveRefPrefix marks a product image stored in Google Drive ("drive:<fileID>")
	DriveRefPrefix = "drive:"

	inlineMaxDim      = 800
	inlineJPEGQuality = 85
	maxImageBytes     = 20 << 20
)

// ImageResolver turns a product image reference into something the render surface can load
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) string
}

// ImageInliner fetches product images and embeds them as data URIs so the render surface
// never depends on network access. Failures keep the reference, which renders as a broken
// image instead of aborting the page.
type ImageInliner struct {
	baseURL string
	client  *http.Client
	drive   DriveServiceInterface
	cache   ImageCache
}

var _ ImageResolver = (*ImageInliner)(nil)

// NewImageInliner creates an inliner. drive and cache may be nil.
func NewImageInliner(baseURL string, drive DriveServiceInterface, cache ImageCache) *ImageInliner {
	return &ImageInliner{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		drive:   drive,
		cache:   cache,
	}
}

// Resolve returns a data URI for ref, or the best loadable reference when inlining fails
func (in *ImageInliner) Resolve(ctx context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}

	key := CacheKey(ref)
	if in.cache != nil {
		if cached, ok, err := in.cache.Get(ctx, key); err != nil {
			log.Printf("⚠️  ImageInliner: cache read failed for %s: %v", ref, err)
		} else if ok {
			return string(cached)
		}
	}

	raw, err := in.fetch(ctx, ref)
	if err != nil {
		log.Printf("⚠️  ImageInliner: %v", err)
		return in.fallback(ref)
	}

	uri, err := InlineImage(raw)
	if err != nil {
		log.Printf("⚠️  ImageInliner: %s: %v", ref, err)
		return in.fallback(ref)
	}

	if in.cache != nil {
		if err := in.cache.Set(ctx, key, []byte(uri)); err != nil {
			log.Printf("⚠️  ImageInliner: cache write failed for %s: %v", ref, err)
		}
	}
	return uri
}

func (in *ImageInliner) fetch(ctx context.Context, ref string) ([]byte, error) {
	if fileID, ok := strings.CutPrefix(ref, DriveRefPrefix); ok {
		if in.drive == nil {
			return nil, fmt.Errorf("drive image %s requested but Google Drive is not configured", fileID)
		}
		return in.drive.DownloadImage(ctx, fileID)
	}

	fullURL := in.absolute(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL %s: %w", fullURL, err)
	}

	resp, err := in.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image %s: status %d", fullURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", fullURL, err)
	}
	return data, nil
}

func (in *ImageInliner) absolute(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() || in.baseURL == "" {
		return ref
	}
	base, err := url.Parse(in.baseURL + "/")
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func (in *ImageInliner) fallback(ref string) string {
	if strings.HasPrefix(ref, DriveRefPrefix) {
		return ""
	}
	return in.absolute(ref)
}

// InlineImage decodes raw image bytes (PNG, JPEG, GIF or WebP), fits them into the inline
// bounding box and returns a data URI. Images with transparency stay PNG.
func InlineImage(raw []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > inlineMaxDim || b.Dy() > inlineMaxDim {
		img = imaging.Fit(img, inlineMaxDim, inlineMaxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	mime := "image/jpeg"
	if hasAlpha(img) {
		mime = "image/png"
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(inlineJPEGQuality))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
