package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectshelf/internal/domain"
	"projectshelf/internal/service"
)

var errMediaDisabled = domain.E(domain.KindUnavailable, "media storage not configured")

func (h *Handler) uploadMedia(c *gin.Context) {
	if h.media == nil {
		h.fail(c, errMediaDisabled)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, domain.E(domain.KindValidation, "file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	obj, err := h.media.Upload(c.Request.Context(), callerID(c), service.MediaUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMediaObjectResponse(*obj))
}

func (h *Handler) listMedia(c *gin.Context) {
	if h.media == nil {
		h.fail(c, errMediaDisabled)
		return
	}

	objects, err := h.media.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]mediaObjectResponse, len(objects))
	for i := range objects {
		resp[i] = toMediaObjectResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteMedia(c *gin.Context) {
	if h.media == nil {
		h.fail(c, errMediaDisabled)
		return
	}

	if err := h.media.Delete(c.Request.Context(), callerID(c), c.Param("key")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
}
