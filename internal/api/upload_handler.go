package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/internal/storage"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
)

// maxUploadSize caps multipart uploads at 25MB, enough for short status
// videos.
const maxUploadSize = 25 << 20

// UploadHandler stores media for statuses and profile pictures
type UploadHandler struct {
	storage storage.FileStorage
	logger  *zap.Logger
}

func NewUploadHandler(fileStorage storage.FileStorage, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage: fileStorage,
		logger:  logger,
	}
}

// Upload accepts a multipart "file" field and returns its public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := h.storage.SaveFile(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		response.InternalError(w, "failed to store file")
		return
	}

	response.Created(w, map[string]string{"url": url})
}
