package handler

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// maxImageWidth bounds stored images; anything wider gets downscaled.
const maxImageWidth = 1600

// UploadImage stores an image posted by an authenticated user and returns
// its public URL, in the shape markdown editors expect.
func (w *Web) UploadImage(c *gin.Context) {
	if !w.currentActor(c).IsAuthenticated() {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required", "success": 0})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image uploaded", "success": 0})
		return
	}

	fileURL, err := w.storeImage(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"data": gin.H{
			"filePath": fileURL,
			"url":      fileURL,
		},
	})
}

// saveUploadedImage stores an optional form image and returns its URL, or
// the empty string when the field was absent or invalid.
func (w *Web) saveUploadedImage(c *gin.Context, field string) string {
	file, err := c.FormFile(field)
	if err != nil {
		return ""
	}

	fileURL, err := w.storeImage(file)
	if err != nil {
		return ""
	}
	return fileURL
}

func (w *Web) storeImage(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("only image uploads are allowed")
	}

	if err := os.MkdirAll(w.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(w.cfg.UploadDir, newFilename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img = downscale(img)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, img)
	default:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(w.cfg.UploadURLPath, "/"), newFilename), nil
}

// downscale shrinks images wider than maxImageWidth, keeping the aspect
// ratio. Smaller images pass through untouched.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	if width <= maxImageWidth {
		return img
	}

	height := bounds.Dy() * maxImageWidth / width
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
