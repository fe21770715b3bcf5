package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/config"
	"ppsg-cms/models"
	"ppsg-cms/services"
	"ppsg-cms/utils"
)

// UploadField is the multipart field carrying the files of an upload.
const UploadField = "files"

func HandleUploadMedia(media *services.MediaService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil || len(form.File[UploadField]) == 0 {
			utils.RespondWithBadRequest(c, "No files uploaded", nil)
			return
		}
		headers := form.File[UploadField]
		if len(headers) > cfg.MaxUploadFiles {
			utils.RespondWithBadRequest(c, fmt.Sprintf("At most %d files can be uploaded at once", cfg.MaxUploadFiles), nil)
			return
		}

		files := make([]models.UploadFile, 0, len(headers))
		for _, fh := range headers {
			if fh.Size > cfg.MaxFileSize {
				utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large",
					fmt.Sprintf("%s exceeds the %d byte upload limit", fh.Filename, cfg.MaxFileSize), nil)
				return
			}
			data, err := readUpload(fh)
			if err != nil {
				utils.RespondWithBadRequest(c, "Failed to read uploaded file", gin.H{"file": fh.Filename})
				return
			}
			files = append(files, models.UploadFile{
				Filename: fh.Filename,
				MimeType: fh.Header.Get("Content-Type"),
				Data:     data,
			})
		}

		result, err := media.Upload(c.Request.Context(), files)
		if err != nil {
			var batch *utils.BatchError
			if errors.As(err, &batch) && result != nil {
				status, code := utils.StatusFor(err)
				utils.RespondWithError(c, status, code, result.Message, result)
				return
			}
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// HandleServeImage writes one rendition with long-lived cache headers.
func HandleServeImage(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := media.FetchRendition(c.Request.Context(), c.Param("id"), c.Param("size"))
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				utils.RespondWithNotFound(c, "Image not found")
				return
			}
			utils.RespondWithAppError(c, err)
			return
		}
		c.Header("Cache-Control", img.CacheControl)
		c.Data(http.StatusOK, img.ContentType, img.Data)
	}
}

func HandleListMedia(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := media.List(c.Request.Context(), c.Query("search"), pageParam(c))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// HandleMediaPicker feeds the image chooser of the content editors.
func HandleMediaPicker(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := media.Picker(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"media": items})
	}
}

func HandleGetMedia(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := media.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// HandleUpdateMedia accepts a JSON body or the editor's url-encoded form.
func HandleUpdateMedia(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var u models.MediaUpdate
		if strings.HasPrefix(c.ContentType(), "application/json") {
			if err := c.ShouldBindJSON(&u); err != nil {
				utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
				return
			}
		} else {
			if err := c.Request.ParseForm(); err != nil {
				utils.RespondWithBadRequest(c, "Invalid form data", gin.H{"error": err.Error()})
				return
			}
			u = mediaUpdateFromForm(c)
		}

		view, err := media.UpdateMetadata(c.Request.Context(), c.Param("id"), u)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func mediaUpdateFromForm(c *gin.Context) models.MediaUpdate {
	field := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	u := models.MediaUpdate{
		Title:       field("title"),
		AltText:     field("alt_text"),
		Description: field("description"),
	}
	if metadata, ok := utils.MetadataFromForm(c.Request.PostForm); ok {
		u.Metadata = metadata
	}
	return u
}

func HandleDeleteMedia(media *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := media.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
	}
}
