package httpapi

import (
	"errors"
	"mime"
	"net/http"

	"lawfirm-cms/internal/documents"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for form fields and boundaries on top of the
// file size limit.
const multipartOverhead = 1 << 20

func (h *Handlers) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Documents.MaxBytes()+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, documents.ErrTooLarge)
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "NIC or file missing"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	doc, err := h.Documents.Upload(c.Request.Context(), actor(c), documents.UploadInput{
		CaseNumber: c.PostForm("nic"),
		FileName:   fh.Filename,
		Size:       fh.Size,
		Body:       f,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Document uploaded successfully", "document": doc})
}

func (h *Handlers) ListDocuments(c *gin.Context) {
	out, err := h.Documents.List(c.Request.Context(), c.Param("nic"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, rc, err := h.Documents.Open(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName})
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.ContentType, rc, map[string]string{
		"Content-Disposition":    disposition,
		"X-Content-Type-Options": "nosniff",
	})
}

func (h *Handlers) DeleteDocument(c *gin.Context) {
	var req idRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Documents.Delete(c.Request.Context(), actor(c), req.ID); err != nil {
		fail(c, err)
		return
	}
	success(c, "Document deleted")
}
