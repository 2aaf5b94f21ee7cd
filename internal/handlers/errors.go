package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/chirp-dev/chirp/internal/services"
)

// respondError maps service errors onto HTTP statuses. Anything that is not
// a domain error is logged and reported as a 500 without details.
func respondError(ctx *gin.Context, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	default:
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// trimmer is implemented by request bodies whose string fields are stored
// trimmed. Validation runs again after trimming so that length rules apply
// to the stored value.
type trimmer interface {
	trim()
}

func bindJSON(ctx *gin.Context, body interface{}) error {
	if err := ctx.ShouldBindJSON(body); err != nil {
		return invalidRequest(err)
	}
	return normalize(body)
}

// bindPatch is bindJSON for partial updates, where an empty body means
// "change nothing".
func bindPatch(ctx *gin.Context, body interface{}) error {
	if err := ctx.ShouldBindJSON(body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalidRequest(err)
	}
	return normalize(body)
}

func normalize(body interface{}) error {
	t, ok := body.(trimmer)
	if !ok {
		return nil
	}

	t.trim()

	if err := binding.Validator.ValidateStruct(body); err != nil {
		return invalidRequest(err)
	}

	return nil
}

func invalidRequest(err error) error {
	return &services.ValidationError{Message: "Invalid request: " + err.Error()}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
