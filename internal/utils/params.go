package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chirp-dev/chirp/internal/services"
)

// GetID parses the named path parameter as a positive entity id.
func GetID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, &services.ValidationError{Message: fmt.Sprintf("%s is required", name)}
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, &services.ValidationError{Message: fmt.Sprintf("Invalid %s: %q", name, raw)}
	}

	return uint(id), nil
}
