package rango

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxPhotoWidth = 480
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processPhoto decodes an uploaded image, scales it down to maxPhotoWidth if
// wider, and re-encodes it as JPEG.
func processPhoto(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPhotoWidth {
		newH := h * maxPhotoWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxPhotoWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// handleCategoryPhoto accepts a photo upload for a category, scales it, and
// stores it under the static uploads dir named after the category slug.
func (a *App) handleCategoryPhoto(c echo.Context) error {
	if !IsContributor(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	cat, err := a.Store.GetCategoryBySlug(slug)
	if err != nil {
		if err == ErrNotFound {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.String(http.StatusBadRequest, "No photo file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := processPhoto(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	filename := cat.Slug + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}

	cat.Photo = filename
	if _, _, err := a.Engine.SaveCategory(cat); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, cat.Link())
}
