package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder

	"recipebox/internal/config"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultMediaDir             = "/tmp/recipebox/media"
	DefaultImageMaxUploadSizeMB = 10
	ThumbnailMaxSize            = 320
	ThumbnailJPEGQuality        = 82
)

// UploadRecipeImageInput carries an image upload request.
type UploadRecipeImageInput struct {
	UserID      uint
	RecipeID    uint
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService validates image payloads and stores them, with a scaled
// thumbnail variant, under the configured media directory.
type ImageService struct {
	recipes            repository.RecipeRepository
	mediaDir           string
	maxUploadSizeBytes int64
}

// NewImageService creates a new image service.
func NewImageService(recipes repository.RecipeRepository, cfg *config.Config) *ImageService {
	mediaDir := DefaultMediaDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.MediaDir != "" {
			mediaDir = cfg.MediaDir
		}
		if cfg.MediaMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
		}
	}

	return &ImageService{
		recipes:            recipes,
		mediaDir:           mediaDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// MediaDir returns the root directory for stored media files.
func (s *ImageService) MediaDir() string {
	return s.mediaDir
}

// UploadRecipeImage validates the payload, stores it with a thumbnail, and
// attaches it to the recipe. Validation happens before anything is written,
// so a rejected upload leaves any previous image untouched.
func (s *ImageService) UploadRecipeImage(ctx context.Context, in UploadRecipeImageInput) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, in.UserID, in.RecipeID)
	if err != nil {
		return nil, err
	}

	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	name := uuid.NewString()
	imagePath := filepath.Join("recipes", name+extensionForFormat(format))
	thumbPath := filepath.Join("recipes", name+"_thumb.jpg")

	if err := s.writeFile(imagePath, in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb, err := s.encodeThumbnail(decoded)
	if err != nil {
		s.RemoveFiles(imagePath)
		return nil, models.NewInternalError(err)
	}
	if err := s.writeFile(thumbPath, thumb); err != nil {
		s.RemoveFiles(imagePath)
		return nil, models.NewInternalError(err)
	}

	oldImage, oldThumb := recipe.ImagePath, recipe.ThumbnailPath
	if err := s.recipes.UpdateImage(ctx, in.UserID, in.RecipeID, imagePath, thumbPath); err != nil {
		s.RemoveFiles(imagePath, thumbPath)
		return nil, err
	}
	s.RemoveFiles(oldImage, oldThumb)

	recipe.ImagePath = imagePath
	recipe.ThumbnailPath = thumbPath
	return recipe, nil
}

// RemoveFiles deletes stored media files, ignoring empty paths. Failures are
// logged, not surfaced; the database row is the source of truth.
func (s *ImageService) RemoveFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.Join(s.mediaDir, p)); err != nil && !os.IsNotExist(err) {
			middleware.Logger.Warn("failed to remove media file",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *ImageService) writeFile(relPath string, content []byte) error {
	full := filepath.Join(s.mediaDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0o644)
}

func (s *ImageService) encodeThumbnail(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > ThumbnailMaxSize || height > ThumbnailMaxSize {
		scale := float64(ThumbnailMaxSize) / float64(width)
		if height > width {
			scale = float64(ThumbnailMaxSize) / float64(height)
		}
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbnailJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	}
	return ".img"
}
