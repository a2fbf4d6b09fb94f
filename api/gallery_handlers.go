package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	internalS3 "photoshare/adapters/s3"
	"photoshare/models"
	"photoshare/stores"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 5 << 20

type photoView struct {
	ID          uint
	Description string
	Filename    string
	URL         string
	Owned       bool
}

// Render the shared gallery
// (GET /?search=)
func (impl *ServerImpl) GetGallery(c *gin.Context) {
	const op = "GetGallery"
	user := mustCurrentUser(c)
	search := c.Query("search")

	photos, err := impl.photos.Search(c.Request.Context(), search)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}

	views := lo.Map(photos, func(photo models.Photo, _ int) photoView {
		return photoView{
			ID:          photo.ID,
			Description: photo.Description,
			Filename:    photo.Filename,
			URL:         impl.blobs.PublicURL(photo.Filename),
			Owned:       photo.UserID == user.ID,
		}
	})
	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Username": user.Username,
		"Search":   search,
		"Photos":   views,
	})
}

// Render the upload form
// (GET /upload)
func (impl *ServerImpl) GetUpload(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{})
}

// Store an uploaded image
// (POST /upload)
func (impl *ServerImpl) PostUpload(c *gin.Context) {
	const op = "PostUpload"
	user := mustCurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.HTML(http.StatusBadRequest, "upload.html", gin.H{"Error": "No file provided"})
		return
	}
	description := impl.htmlChecker.Sanitize(c.PostForm("description"))

	file, err := fileHeader.Open()
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	defer file.Close()

	body := internalS3.NewMaxSizeReader(file, maxUploadBytes)
	content, err := io.ReadAll(body)
	var limitErr *internalS3.ReachLimitError
	if errors.As(err, &limitErr) {
		c.HTML(http.StatusBadRequest, "upload.html", gin.H{"Error": err.Error()})
		return
	}
	if err != nil {
		impl.serverError(c, op, err)
		return
	}

	_, err = impl.photos.Create(c.Request.Context(), fileHeader.Filename, description, content, user.ID)
	if errors.Is(err, stores.ErrDisallowedExtension) {
		c.HTML(http.StatusBadRequest, "upload.html", gin.H{"Error": "File type not allowed"})
		return
	}
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Redirect to the blob's public URL
// (GET /download/:filename)
func (impl *ServerImpl) GetDownload(c *gin.Context) {
	c.Redirect(http.StatusFound, impl.blobs.PublicURL(c.Param("filename")))
}

// Delete an owned photo
// (POST /delete/:photoID)
func (impl *ServerImpl) PostDelete(c *gin.Context) {
	const op = "PostDelete"
	user := mustCurrentUser(c)

	photoID, err := strconv.ParseUint(c.Param("photoID"), 10, 64)
	if err != nil {
		// a malformed id deletes nothing, same as an unknown one
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := impl.photos.Delete(c.Request.Context(), uint(photoID), user.ID); err != nil {
		impl.serverError(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
