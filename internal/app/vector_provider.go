package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/docqa-backend/internal/data/db"
	"github.com/yungbote/docqa-backend/internal/data/repos"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/qdrant"
	"github.com/yungbote/docqa-backend/internal/rag"
)

type VectorProvider string

const (
	VectorProviderLocal    VectorProvider = "local"
	VectorProviderQdrant   VectorProvider = "qdrant"
	VectorProviderPGVector VectorProvider = "pgvector"
)

type VectorProviderConfigErrorCode string

const (
	VectorProviderConfigErrorInvalidProvider      VectorProviderConfigErrorCode = "invalid_vector_store"
	VectorProviderConfigErrorPGVectorNeedsPG      VectorProviderConfigErrorCode = "pgvector_requires_postgres"
	VectorProviderConfigErrorMissingQdrantURL     VectorProviderConfigErrorCode = "missing_qdrant_url"
	VectorProviderConfigErrorInvalidQdrantURL     VectorProviderConfigErrorCode = "invalid_qdrant_url"
	VectorProviderConfigErrorMissingQdrantColl    VectorProviderConfigErrorCode = "missing_qdrant_collection"
	VectorProviderConfigErrorMissingQdrantVector  VectorProviderConfigErrorCode = "missing_qdrant_vector_dim"
	VectorProviderConfigErrorInvalidQdrantVector  VectorProviderConfigErrorCode = "invalid_qdrant_vector_dim"
	VectorProviderConfigErrorUnknownQdrantFailure VectorProviderConfigErrorCode = "qdrant_config_error"
)

type VectorProviderConfigError struct {
	Code     VectorProviderConfigErrorCode
	Provider VectorProvider
	Driver   string
	Cause    error
}

func (e *VectorProviderConfigError) Error() string {
	if e == nil {
		return "invalid vector provider config"
	}
	return fmt.Sprintf(
		"invalid vector provider config (code=%s provider=%q database=%q): %v",
		e.Code,
		e.Provider,
		e.Driver,
		e.Cause,
	)
}

func (e *VectorProviderConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type VectorProviderConfig struct {
	Provider VectorProvider
	Qdrant   qdrant.Config
}

// resolveVectorProviderConfig validates VECTOR_STORE against the database driver and,
// for qdrant, reads the QDRANT_* variables.
func resolveVectorProviderConfig(raw, dbDriver string) (VectorProviderConfig, error) {
	switch VectorProvider(raw) {
	case VectorProviderLocal, "":
		return VectorProviderConfig{Provider: VectorProviderLocal}, nil
	case VectorProviderQdrant:
		qcfg, err := qdrant.ResolveConfigFromEnv()
		if err != nil {
			return VectorProviderConfig{}, mapVectorProviderConfigError(dbDriver, err)
		}
		return VectorProviderConfig{Provider: VectorProviderQdrant, Qdrant: qcfg}, nil
	case VectorProviderPGVector:
		if dbDriver != db.DriverPostgres {
			return VectorProviderConfig{}, &VectorProviderConfigError{
				Code:     VectorProviderConfigErrorPGVectorNeedsPG,
				Provider: VectorProviderPGVector,
				Driver:   dbDriver,
				Cause:    errors.New("VECTOR_STORE=pgvector needs DATABASE=postgres"),
			}
		}
		return VectorProviderConfig{Provider: VectorProviderPGVector}, nil
	default:
		return VectorProviderConfig{}, &VectorProviderConfigError{
			Code:     VectorProviderConfigErrorInvalidProvider,
			Provider: VectorProvider(raw),
			Driver:   dbDriver,
			Cause:    fmt.Errorf("unsupported VECTOR_STORE %q (want local, qdrant or pgvector)", raw),
		}
	}
}

func mapVectorProviderConfigError(dbDriver string, err error) error {
	code := VectorProviderConfigErrorUnknownQdrantFailure
	var qerr *qdrant.ConfigError
	if errors.As(err, &qerr) {
		switch qerr.Code {
		case qdrant.ConfigErrorMissingURL:
			code = VectorProviderConfigErrorMissingQdrantURL
		case qdrant.ConfigErrorInvalidURL:
			code = VectorProviderConfigErrorInvalidQdrantURL
		case qdrant.ConfigErrorMissingCollection:
			code = VectorProviderConfigErrorMissingQdrantColl
		case qdrant.ConfigErrorMissingVectorDim:
			code = VectorProviderConfigErrorMissingQdrantVector
		case qdrant.ConfigErrorInvalidVectorDim:
			code = VectorProviderConfigErrorInvalidQdrantVector
		}
	}
	return &VectorProviderConfigError{
		Code:     code,
		Provider: VectorProviderQdrant,
		Driver:   dbDriver,
		Cause:    err,
	}
}

// wireVectorIndex returns the index for the resolved provider. The qdrant store is created in
// wireClients and passed in; it is nil for the other providers.
func wireVectorIndex(log *logger.Logger, vcfg VectorProviderConfig, baseDir string, gdb *gorm.DB, store *qdrant.Store) (rag.VectorIndex, error) {
	log.Info("Wiring vector index...", "provider", vcfg.Provider)
	switch vcfg.Provider {
	case VectorProviderQdrant:
		if store == nil {
			return nil, fmt.Errorf("qdrant store not initialized")
		}
		return &rag.QdrantIndex{Store: store}, nil
	case VectorProviderPGVector:
		if err := db.EnsurePGVector(gdb); err != nil {
			return nil, err
		}
		return &rag.PGVectorIndex{Repo: repos.NewChunkEmbeddingRepo(gdb, log)}, nil
	default:
		return rag.NewLocalIndex(log, baseDir), nil
	}
}

// vectorStoreCheck is the healthcheck for remote indexes.
func vectorStoreCheck(store *qdrant.Store) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := store.CountNamespace(ctx, "healthcheck")
		return err
	}
}
