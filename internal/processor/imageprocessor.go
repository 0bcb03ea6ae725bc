// imageprocessor.go - Photo preprocessing before vision model calls

package processor

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/nutrilens/nutrilens-api/configs"
)

// maxImageDownloadBytes caps how much image data is read from a photo URL.
const maxImageDownloadBytes = 15 << 20

var imageClient = &http.Client{
	Timeout: 30 * time.Second,
}

// FetchAndPreprocessImage downloads a photo by URL, downscales it so the
// longest side is at most maxDimension, and re-encodes as JPEG. Food photos
// keep their color; vision models handle the rest.
func FetchAndPreprocessImage(ctx context.Context, imageURL string, maxDimension int) ([]byte, error) {
	data, err := downloadImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	if !configs.ENABLE_IMAGE_PREPROCESSING {
		return data, nil
	}

	processed, err := downscaleJPEG(data, maxDimension)
	if err != nil {
		// Preprocessing is best-effort; an undecodable format goes through as-is
		return data, nil
	}

	return processed, nil
}

func downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image download returned empty body")
	}

	return data, nil
}

// downscaleJPEG resizes the image so neither side exceeds maxDimension and
// encodes it as JPEG quality 90.
func downscaleJPEG(data []byte, maxDimension int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxDimension || height > maxDimension {
		if width > height {
			img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}

	return buf.Bytes(), nil
}
