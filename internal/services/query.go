package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/rag"
)

const defaultHistoryLimit = 20

var (
	errNoIndex          = apierr.NotFound("index_not_found", "No indexed documents for this user")
	errIndexUnavailable = &apierr.Error{Status: http.StatusServiceUnavailable, Code: "vector_store_unavailable", Message: "Vector store unavailable"}
)

type AnswerResult struct {
	Answer string `json:"answer"`
}

type QueryService interface {
	Answer(ctx context.Context, u *types.User, query string) (*AnswerResult, error)
	History(ctx context.Context, u *types.User, limit int) ([]*types.QueryLog, error)
}

type queryService struct {
	log    *logger.Logger
	logs   repos.QueryLogRepo
	index  rag.VectorIndex
	qa     *rag.RetrievalQA
	models ModelService
}

func NewQueryService(
	log *logger.Logger,
	logs repos.QueryLogRepo,
	index rag.VectorIndex,
	qa *rag.RetrievalQA,
	models ModelService,
) QueryService {
	return &queryService{
		log:    log.With("service", "QueryService"),
		logs:   logs,
		index:  index,
		qa:     qa,
		models: models,
	}
}

type querySource struct {
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"`
}

// Answer runs retrieval QA over the caller's own index. Sources are recorded in the query log only.
func (qs *queryService) Answer(ctx context.Context, u *types.User, query string) (*AnswerResult, error) {
	if u == nil {
		return nil, errUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.BadRequest("empty_query", "Query is required")
	}

	ok, err := qs.index.Exists(ctx, u.FolderName)
	if err != nil {
		if errors.Is(err, rag.ErrIndexUnavailable) {
			return nil, withCause(errIndexUnavailable, err)
		}
		return nil, apierr.Internal("index_lookup_failed", err)
	}
	if !ok {
		return nil, errNoIndex
	}
	llm, err := qs.models.LLM()
	if err != nil {
		return nil, err
	}

	ctx, span := observability.Tracer("docqa/query").Start(ctx, "query.answer")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", int(u.ID)), attribute.String("llm.model", qs.models.ModelName()))

	start := time.Now()
	res, err := qs.qa.Run(ctx, llm, u.FolderName, query)
	latency := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer failed")
		qs.record(ctx, u, query, nil, latency, err)
		switch {
		case errors.Is(err, rag.ErrIndexNotFound):
			return nil, errNoIndex
		case errors.Is(err, rag.ErrEmptyQuestion):
			return nil, apierr.BadRequest("empty_query", "Query is required")
		case errors.Is(err, rag.ErrIndexUnavailable):
			return nil, withCause(errIndexUnavailable, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, &apierr.Error{Status: http.StatusGatewayTimeout, Code: "query_timeout", Message: "Query timed out", Err: err}
		}
		qs.log.Error("answer query", "user_id", u.ID, "error", err)
		return nil, &apierr.Error{Status: http.StatusBadGateway, Code: "llm_failed", Message: "Failed to answer query", Err: err}
	}

	qs.record(ctx, u, query, res, latency, nil)
	return &AnswerResult{Answer: res.Answer}, nil
}

func (qs *queryService) History(ctx context.Context, u *types.User, limit int) ([]*types.QueryLog, error) {
	if u == nil {
		return nil, errUnauthorized
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	rows, err := qs.logs.ListByUserID(dbctx.Context{Ctx: ctx}, u.ID, limit)
	if err != nil {
		return nil, apierr.Internal("query_history_failed", err)
	}
	return rows, nil
}

// record writes the audit row. Failures are logged and never reach the caller.
func (qs *queryService) record(ctx context.Context, u *types.User, query string, res *rag.Result, latency time.Duration, runErr error) {
	row := &types.QueryLog{
		UserID:    u.ID,
		Query:     query,
		Model:     qs.models.ModelName(),
		TopK:      qs.qa.TopK,
		LatencyMS: latency.Milliseconds(),
		Status:    types.QueryStatusOK,
		CreatedAt: time.Now().UTC(),
	}
	if res != nil {
		row.Answer = res.Answer
		sources := make([]querySource, 0, len(res.Sources))
		for _, m := range res.Sources {
			sources = append(sources, querySource{
				Source:  m.Metadata.Source,
				Page:    m.Metadata.Page,
				Ordinal: m.Ordinal,
				Score:   m.Score,
			})
		}
		if raw, err := json.Marshal(sources); err == nil {
			row.Sources = datatypes.JSON(raw)
		}
	}
	if runErr != nil {
		row.Status = types.QueryStatusFailed
		row.Error = runErr.Error()
	}
	if _, err := qs.logs.Create(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, []*types.QueryLog{row}); err != nil {
		qs.log.Warn("write query log", "user_id", u.ID, "error", err)
	}
}

func withCause(e *apierr.Error, cause error) *apierr.Error {
	out := *e
	out.Err = cause
	return &out
}
