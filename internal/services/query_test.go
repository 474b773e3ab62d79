package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/rag"
)

// axisEmbedder maps texts mentioning "cat" or "dog" onto separate axes.
type axisEmbedder struct{}

func (axisEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v := []float32{0.01, 0.01}
		if strings.Contains(in, "cat") {
			v[0] = 1
		}
		if strings.Contains(in, "dog") {
			v[1] = 1
		}
		out[i] = v
	}
	return out, nil
}

type queryFixture struct {
	env   *testEnv
	user  *types.User
	index *rag.LocalIndex
	model *fakeModel
	ms    ModelService
	svc   QueryService
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	env := newTestEnv(t)
	u := env.signup(t, "q@example.com", "pw")
	ix := rag.NewLocalIndex(env.log, env.folders.BaseDir())
	model := &fakeModel{name: "llama3", answer: "  Cats sleep a lot.  "}
	ms := NewModelService(env.log, model)
	qa := &rag.RetrievalQA{Embedder: axisEmbedder{}, Index: ix, TopK: 1}
	return &queryFixture{
		env:   env,
		user:  u,
		index: ix,
		model: model,
		ms:    ms,
		svc:   NewQueryService(env.log, env.logs, ix, qa, ms),
	}
}

func (f *queryFixture) seedIndex(t *testing.T) {
	t.Helper()
	entries := []rag.Entry{
		{ID: "chunk-0", Ordinal: 0, Content: "the cat sleeps", Metadata: rag.Metadata{Source: "/x/a.pdf", Page: 0}},
		{ID: "chunk-1", Ordinal: 1, Content: "the dog runs", Metadata: rag.Metadata{Source: "/x/a.pdf", Page: 1}},
	}
	vecs, _ := axisEmbedder{}.Embed(context.Background(), []string{entries[0].Content, entries[1].Content})
	for i := range entries {
		entries[i].Vector = vecs[i]
	}
	require.NoError(t, f.index.Replace(context.Background(), f.user.FolderName, entries))
}

func TestAnswerWithoutIndexIsNotFound(t *testing.T) {
	f := newQueryFixture(t)
	require.NoError(t, f.ms.Load(context.Background()))

	_, err := f.svc.Answer(context.Background(), f.user, "what does the cat do?")
	require.True(t, apierr.Is(err, http.StatusNotFound))
	require.Equal(t, "No indexed documents for this user", apierr.PublicMessage(err))
}

type downIndex struct{ rag.VectorIndex }

func (downIndex) Exists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("%w: dial tcp 10.0.0.7:6333: connection refused", rag.ErrIndexUnavailable)
}

func TestAnswerVectorStoreDownIsUnavailable(t *testing.T) {
	f := newQueryFixture(t)
	require.NoError(t, f.ms.Load(context.Background()))
	svc := NewQueryService(f.env.log, f.env.logs, downIndex{}, &rag.RetrievalQA{Embedder: axisEmbedder{}, Index: downIndex{}, TopK: 1}, f.ms)

	_, err := svc.Answer(context.Background(), f.user, "what does the cat do?")
	status, code := apierr.StatusOf(err)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "vector_store_unavailable", code)
	require.Equal(t, "Vector store unavailable", apierr.PublicMessage(err))
	require.ErrorIs(t, err, rag.ErrIndexUnavailable)
}

func TestAnswerRequiresLoadedModel(t *testing.T) {
	f := newQueryFixture(t)
	f.seedIndex(t)

	_, err := f.svc.Answer(context.Background(), f.user, "what does the cat do?")
	require.True(t, apierr.Is(err, http.StatusServiceUnavailable))
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	f := newQueryFixture(t)
	_, err := f.svc.Answer(context.Background(), f.user, "   ")
	require.True(t, apierr.Is(err, http.StatusBadRequest))
}

func TestAnswerUsesClosestChunkAndLogsQuery(t *testing.T) {
	f := newQueryFixture(t)
	f.seedIndex(t)
	ctx := context.Background()
	require.NoError(t, f.ms.Load(ctx))

	res, err := f.svc.Answer(ctx, f.user, "what does the cat do?")
	require.NoError(t, err)
	require.Equal(t, "Cats sleep a lot.", res.Answer)

	require.Len(t, f.model.prompts, 1)
	require.Contains(t, f.model.prompts[0], "Context: the cat sleeps\n")
	require.NotContains(t, f.model.prompts[0], "the dog runs")
	require.Contains(t, f.model.prompts[0], "Question: what does the cat do?\n")

	hist, err := f.svc.History(ctx, f.user, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	row := hist[0]
	require.Equal(t, types.QueryStatusOK, row.Status)
	require.Equal(t, "llama3", row.Model)
	require.Equal(t, 1, row.TopK)

	var sources []map[string]any
	require.NoError(t, json.Unmarshal(row.Sources, &sources))
	require.Len(t, sources, 1)
	require.Equal(t, "/x/a.pdf", sources[0]["source"])
}

func TestAnswerModelFailureIsBadGatewayAndLogged(t *testing.T) {
	f := newQueryFixture(t)
	f.seedIndex(t)
	ctx := context.Background()
	require.NoError(t, f.ms.Load(ctx))
	f.model.err = errors.New("connection refused")

	_, err := f.svc.Answer(ctx, f.user, "dog?")
	require.True(t, apierr.Is(err, http.StatusBadGateway))

	hist, err := f.svc.History(ctx, f.user, 5)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, types.QueryStatusFailed, hist[0].Status)
	require.Contains(t, hist[0].Error, "connection refused")
}
