package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ppsg-cms/models"
	"ppsg-cms/utils"
)

// contentService is the admin surface shared by projects, products and
// services. T is the stored record, In the submitted form.
type contentService[T any, In any] interface {
	List(ctx context.Context, search, status string, page int) (models.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Delete(ctx context.Context, id string) error
}

// registerContent mounts list, show, create, update and delete under group.
func registerContent[T any, In any](group *gin.RouterGroup, svc contentService[T, In]) {
	group.GET("", HandleListContent(svc))
	group.POST("", HandleCreateContent(svc))
	group.GET("/:id", HandleGetContent(svc))
	group.PUT("/:id", HandleUpdateContent(svc))
	group.DELETE("/:id", HandleDeleteContent(svc))
}

// HandleListContent serves ?search, ?status and ?page.
func HandleListContent[T any, In any](svc contentService[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.List(c.Request.Context(), c.Query("search"), c.Query("status"), pageParam(c))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func HandleGetContent[T any, In any](svc contentService[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func HandleCreateContent[T any, In any](svc contentService[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		item, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func HandleUpdateContent[T any, In any](svc contentService[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		item, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func HandleDeleteContent[T any, In any](svc contentService[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	}
}
