package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	// MaxUploadSize caps a single post image.
	MaxUploadSize = 4 << 20
	// UploadURLPrefix is where stored images are served from.
	UploadURLPrefix = services.UploadURLPrefix
)

// allowedImageTypes maps sniffed content types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores post images and hands back their URL.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates a new UploadHandler writing into uploadDir.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadPostImage handles a multipart upload of the "image" field.
func (h *UploadHandler) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1024)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Image is too large or the form is malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing image field")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		writeError(w, http.StatusBadRequest, "Image is too large")
		return
	}

	// Trust the bytes, not the client's Content-Type.
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF {
		writeError(w, http.StatusBadRequest, "Could not read image")
		return
	}
	ext, ok := allowedImageTypes[http.DetectContentType(sniff[:n])]
	if !ok {
		writeError(w, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		log.Error().Err(err).Msg("Failed to rewind uploaded image")
		writeError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	name, err := h.store(file, ext)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store uploaded image")
		writeError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	url := UploadURLPrefix + name
	log.Info().Str("url", url).Int64("bytes", header.Size).Msg("Post image uploaded")
	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

func (h *UploadHandler) store(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return name, dst.Close()
}
