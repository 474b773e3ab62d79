package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/http/middleware"
	"github.com/yungbote/docqa-backend/internal/http/response"
	"github.com/yungbote/docqa-backend/internal/services"
)

type QueryHandler struct {
	queryService services.QueryService
}

func NewQueryHandler(queryService services.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// GET /query?query=...  or  GET /query with body { "query": "..." }
func (qh *QueryHandler) Answer(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" && c.Request.ContentLength != 0 && isJSON(c) {
		var req struct {
			Query string `json:"query"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
			return
		}
		q = req.Query
	}
	if strings.TrimSpace(q) == "" {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", errors.New("query is required"))
		return
	}
	res, err := qh.queryService.Answer(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /queries/history?limit=20
func (qh *QueryHandler) History(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}
	rows, err := qh.queryService.History(c.Request.Context(), middleware.CurrentUser(c), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}
