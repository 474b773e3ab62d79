package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/http/response"
	"github.com/yungbote/docqa-backend/internal/services"
)

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// POST /upload/:user_id/
// multipart: file
func (fh *FileHandler) Upload(c *gin.Context) {
	userID, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", errors.New("file is required"))
		return
	}
	src, err := header.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", errors.New("could not read uploaded file"))
		return
	}
	defer src.Close()

	res, err := fh.fileService.Upload(c.Request.Context(), userID, services.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        src,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /files/:user_id/?skip=0&limit=100
func (fh *FileHandler) List(c *gin.Context) {
	userID, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	files, err := fh.fileService.List(c.Request.Context(), userID, skip, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, files)
}

// DELETE /files/:user_id/:file_id/
func (fh *FileHandler) Delete(c *gin.Context) {
	userID, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	fileID, ok := pathUint(c, "file_id")
	if !ok {
		return
	}
	if err := fh.fileService.Delete(c.Request.Context(), userID, fileID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
