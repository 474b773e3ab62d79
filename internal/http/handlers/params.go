package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/http/response"
)

func pathUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", fmt.Errorf("%s must be an integer", name))
		return 0, false
	}
	return v, true
}

// isJSON reports whether the request body is JSON rather than a form.
func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

// bindJSONOrForm fills dst from a JSON body or, for form posts, from form fields via `form` tags.
func bindJSONOrForm(c *gin.Context, dst any) bool {
	var err error
	if isJSON(c) {
		err = c.ShouldBindJSON(dst)
	} else {
		err = c.ShouldBind(dst)
	}
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", errors.New("invalid request body"))
		return false
	}
	return true
}

// requireFields takes name/value pairs and rejects the first blank value.
func requireFields(c *gin.Context, pairs ...string) bool {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", fmt.Errorf("%s is required", pairs[i]))
			return false
		}
	}
	return true
}
