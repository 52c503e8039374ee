// internal/storage/gateway.go
package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"labelforge/internal/common/database"
	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/models"
)

const (
	labelCacheKeyPrefix = "label:"
	indexTimeout        = 2 * time.Second
)

// Gateway is the create-only persistence layer for generated artifacts.
// Postgres is the system of record; Redis is a read-through cache for
// label lookups and Elasticsearch receives best-effort copies for search.
// Both side channels are optional and never fail a request.
type Gateway struct {
	db       *database.PostgresClient
	cache    *database.RedisClient
	search   *database.ElasticsearchClient
	logger   logger.Logger
	cacheTTL time.Duration
	esIndex  string
}

func NewGateway(db *database.PostgresClient, cache *database.RedisClient, search *database.ElasticsearchClient, log logger.Logger, cacheTTL time.Duration, esIndex string) *Gateway {
	return &Gateway{
		db:       db,
		cache:    cache,
		search:   search,
		logger:   log,
		cacheTTL: cacheTTL,
		esIndex:  esIndex,
	}
}

// ==========================
// Labels
// ==========================

// PutLabel inserts a label record. Records are immutable: a second write
// under the same ID is a collision, never an update.
func (g *Gateway) PutLabel(ctx context.Context, label *models.Label) error {
	content, err := json.Marshal(label.Content)
	if err != nil {
		return commonerrors.NewPersistenceError(err)
	}
	var translated []byte
	if label.Translated != nil {
		translated, err = json.Marshal(label.Translated)
		if err != nil {
			return commonerrors.NewPersistenceError(err)
		}
	}

	_, err = g.db.Exec(ctx, `
		INSERT INTO labels (id, market, language, product_name, content, translated, generated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		label.ID, label.Market, label.Language, label.ProductName,
		content, nullableJSON(translated), label.GeneratedBy, label.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return commonerrors.NewDuplicateArtifactError(label.ID)
		}
		return commonerrors.NewPersistenceError(err)
	}

	g.cacheLabel(ctx, label)
	g.indexDocument(ctx, label.ID, label)
	return nil
}

// GetLabel reads a label by ID through the cache.
func (g *Gateway) GetLabel(ctx context.Context, id string) (*models.Label, error) {
	if cached := g.cachedLabel(ctx, id); cached != nil {
		return cached, nil
	}

	row := g.db.QueryRow(ctx, `
		SELECT id, market, language, product_name, content, translated, generated_by, created_at
		FROM labels WHERE id = $1`, id)

	label, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewArtifactNotFoundError(id)
	}
	if err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}

	g.cacheLabel(ctx, label)
	return label, nil
}

// ListLabels returns the newest labels, optionally filtered by market.
func (g *Gateway) ListLabels(ctx context.Context, market string, limit int) ([]models.Label, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if market != "" {
		rows, err = g.db.Query(ctx, `
			SELECT id, market, language, product_name, content, translated, generated_by, created_at
			FROM labels WHERE market = $1 ORDER BY created_at DESC LIMIT $2`, market, limit)
	} else {
		rows, err = g.db.Query(ctx, `
			SELECT id, market, language, product_name, content, translated, generated_by, created_at
			FROM labels ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	defer rows.Close()

	labels := make([]models.Label, 0, limit)
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, commonerrors.NewPersistenceError(err)
		}
		labels = append(labels, *label)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	return labels, nil
}

// ==========================
// Crisis responses
// ==========================

// PutCrisisResponse inserts the full crisis bundle as one record.
func (g *Gateway) PutCrisisResponse(ctx context.Context, resp *models.CrisisResponse) error {
	scenario, err := json.Marshal(resp.Scenario)
	if err != nil {
		return commonerrors.NewPersistenceError(err)
	}
	labels, err := json.Marshal(resp.RevisedLabels)
	if err != nil {
		return commonerrors.NewPersistenceError(err)
	}
	communications, err := json.Marshal(resp.Communications)
	if err != nil {
		return commonerrors.NewPersistenceError(err)
	}
	actionPlan, err := json.Marshal(resp.ActionPlan)
	if err != nil {
		return commonerrors.NewPersistenceError(err)
	}

	_, err = g.db.Exec(ctx, `
		INSERT INTO crisis_responses (id, scenario, revised_labels, communications, action_plan, impact_estimate, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resp.ID, scenario, labels, communications, actionPlan, resp.ImpactEstimate, resp.GeneratedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return commonerrors.NewDuplicateArtifactError(resp.ID)
		}
		return commonerrors.NewPersistenceError(err)
	}

	g.indexDocument(ctx, resp.ID, resp)
	return nil
}

// GetCrisisResponse reads a crisis bundle by ID.
func (g *Gateway) GetCrisisResponse(ctx context.Context, id string) (*models.CrisisResponse, error) {
	row := g.db.QueryRow(ctx, `
		SELECT id, scenario, revised_labels, communications, action_plan, impact_estimate, generated_at
		FROM crisis_responses WHERE id = $1`, id)

	var (
		resp           models.CrisisResponse
		scenario       []byte
		labels         []byte
		communications []byte
		actionPlan     []byte
	)
	err := row.Scan(&resp.ID, &scenario, &labels, &communications, &actionPlan, &resp.ImpactEstimate, &resp.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewArtifactNotFoundError(id)
	}
	if err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}

	if err := json.Unmarshal(scenario, &resp.Scenario); err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	if err := json.Unmarshal(labels, &resp.RevisedLabels); err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	if err := json.Unmarshal(communications, &resp.Communications); err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	if err := json.Unmarshal(actionPlan, &resp.ActionPlan); err != nil {
		return nil, commonerrors.NewPersistenceError(err)
	}
	return &resp, nil
}

// ==========================
// Side channels
// ==========================

func (g *Gateway) cachedLabel(ctx context.Context, id string) *models.Label {
	if g.cache == nil {
		return nil
	}
	raw, err := g.cache.Get(ctx, labelCacheKeyPrefix+id)
	if err != nil {
		return nil
	}
	var label models.Label
	if err := json.Unmarshal([]byte(raw), &label); err != nil {
		g.logger.Warn("Discarding unreadable cached label", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return &label
}

func (g *Gateway) cacheLabel(ctx context.Context, label *models.Label) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(label)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, labelCacheKeyPrefix+label.ID, raw, g.cacheTTL); err != nil {
		g.logger.Warn("Label cache write failed", map[string]interface{}{
			"labelId": label.ID,
			"error":   err.Error(),
		})
	}
}

func (g *Gateway) indexDocument(ctx context.Context, id string, doc interface{}) {
	if g.search == nil {
		return
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return
	}

	indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	res, err := g.search.Client.Index(
		g.esIndex,
		bytes.NewReader(body),
		g.search.Client.Index.WithDocumentID(id),
		g.search.Client.Index.WithContext(indexCtx),
	)
	if err != nil {
		g.logger.Warn("Search index write failed", map[string]interface{}{
			"documentId": id,
			"error":      err.Error(),
		})
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		g.logger.Warn("Search index write rejected", map[string]interface{}{
			"documentId": id,
			"status":     res.Status(),
		})
	}
}

// ==========================
// Helpers
// ==========================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLabel(row rowScanner) (*models.Label, error) {
	var (
		label      models.Label
		content    []byte
		translated []byte
	)
	err := row.Scan(&label.ID, &label.Market, &label.Language, &label.ProductName,
		&content, &translated, &label.GeneratedBy, &label.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &label.Content); err != nil {
		return nil, err
	}
	if len(translated) > 0 {
		var sections models.TranslatedSections
		if err := json.Unmarshal(translated, &sections); err != nil {
			return nil, err
		}
		label.Translated = &sections
	}
	return &label, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
