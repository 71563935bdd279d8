package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadImage(t *testing.T, app *fiber.App, token string, recipeID uint, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err, "create form file")
	_, err = part.Write(content)
	require.NoError(t, err, "write image bytes")
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/recipes/%d/upload-image", recipeID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test")
	return resp
}

func TestUploadRecipeImage(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	token := registerAndLogin(t, app, "photo@example.com")
	recipe := createRecipe(t, app, token, sampleRecipeBody("Photogenic"))

	resp := uploadImage(t, app, token, recipe.ID, "dish.png", tinyPNG(t, 640, 480))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	imageURL, _ := body["image"].(string)
	require.True(t, strings.HasPrefix(imageURL, "/media/"), "image URL %q", imageURL)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, recipe.ID).Error)
	require.NotEmpty(t, stored.ImagePath)
	require.NotEmpty(t, stored.ThumbnailPath)

	// Both the original and the thumbnail land under the media dir.
	for _, rel := range []string{stored.ImagePath, stored.ThumbnailPath} {
		_, err := os.Stat(filepath.Join(s.imageService.MediaDir(), rel))
		assert.NoError(t, err, "stored file %s", rel)
	}
}

func TestUploadRecipeImageReplacesOldFiles(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	token := registerAndLogin(t, app, "replace@example.com")
	recipe := createRecipe(t, app, token, sampleRecipeBody("Repictured"))

	resp := uploadImage(t, app, token, recipe.ID, "first.png", tinyPNG(t, 64, 64))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var before models.Recipe
	require.NoError(t, db.First(&before, recipe.ID).Error)

	resp = uploadImage(t, app, token, recipe.ID, "second.png", tinyPNG(t, 64, 64))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var after models.Recipe
	require.NoError(t, db.First(&after, recipe.ID).Error)
	assert.NotEqual(t, before.ImagePath, after.ImagePath)

	_, err := os.Stat(filepath.Join(s.imageService.MediaDir(), before.ImagePath))
	assert.True(t, os.IsNotExist(err), "old image file should be gone")
}

func TestUploadRecipeImageRejectsNonImage(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)
	token := registerAndLogin(t, app, "fraud@example.com")
	recipe := createRecipe(t, app, token, sampleRecipeBody("Fraudulent"))

	// A real image first, so we can check it survives the bad upload.
	resp := uploadImage(t, app, token, recipe.ID, "real.png", tinyPNG(t, 32, 32))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var before models.Recipe
	require.NoError(t, db.First(&before, recipe.ID).Error)

	resp = uploadImage(t, app, token, recipe.ID, "notes.txt", []byte("just some text, not pixels"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	var after models.Recipe
	require.NoError(t, db.First(&after, recipe.ID).Error)
	assert.Equal(t, before.ImagePath, after.ImagePath, "prior image untouched on rejection")
}

func TestUploadRecipeImageMissingFile(t *testing.T) {
	t.Parallel()

	_, app, _ := setupTestServer(t)
	token := registerAndLogin(t, app, "empty@example.com")
	recipe := createRecipe(t, app, token, sampleRecipeBody("Empty Handed"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/recipes/%d/upload-image", recipe.ID), token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRecipeImageForeignRecipe(t *testing.T) {
	t.Parallel()

	_, app, _ := setupTestServer(t)
	aliceToken := registerAndLogin(t, app, "img-alice@example.com")
	bobToken := registerAndLogin(t, app, "img-bob@example.com")

	recipe := createRecipe(t, app, aliceToken, sampleRecipeBody("Alice Dish"))

	resp := uploadImage(t, app, bobToken, recipe.ID, "sneaky.png", tinyPNG(t, 16, 16))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
