package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/requests"
	"github.com/meili-bridge/app/responses"
	"github.com/meili-bridge/app/services"
)

// AdminController exposes the operator surface: meta-key registry
// management, reindexing, cache invalidation and stats.
type AdminController struct {
	settings     *services.SettingsService
	indexService *services.IndexService
	contentStore *services.ContentStore
	resultCache  *services.ResultCache
	stats        func() (int64, error)
	logger       *zap.Logger
}

func NewAdminController(settings *services.SettingsService, indexService *services.IndexService,
	contentStore *services.ContentStore, resultCache *services.ResultCache,
	indexStats func() (int64, error), logger *zap.Logger) *AdminController {
	return &AdminController{
		settings:     settings,
		indexService: indexService,
		contentStore: contentStore,
		resultCache:  resultCache,
		stats:        indexStats,
		logger:       logger,
	}
}

// GetMetaKeys lists the allow-listed meta keys and the rejected keys seen.
func (ac *AdminController) GetMetaKeys(c *gin.Context) {
	ctx := c.Request.Context()

	indexed, err := ac.settings.GetStringList(ctx, services.SettingIndexedMetaKeys)
	if err != nil {
		ac.fail(c, "failed to load meta keys", err)
		return
	}

	seen, err := ac.settings.NonIndexableKeys(ctx)
	if err != nil {
		ac.fail(c, "failed to load non-indexable keys", err)
		return
	}

	c.JSON(http.StatusOK, responses.MetaKeysResponse{
		IndexedKeys:      indexed,
		NonIndexableSeen: seen,
	})
}

// UpdateMetaKeys replaces the indexable meta-key allow-list. Takes effect on
// the next reindex; until then newly added keys have no engine-side values.
func (ac *AdminController) UpdateMetaKeys(c *gin.Context) {
	var req requests.MetaKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	if err := ac.settings.SetStringList(c.Request.Context(), services.SettingIndexedMetaKeys, req.Keys); err != nil {
		ac.fail(c, "failed to save meta keys", err)
		return
	}

	ac.logger.Info("indexable meta keys updated", zap.Strings("keys", req.Keys))
	c.JSON(http.StatusOK, gin.H{"saved": len(req.Keys)})
}

// Reindex runs a full indexing pass.
func (ac *AdminController) Reindex(c *gin.Context) {
	var req requests.ReindexRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	run, err := ac.indexService.Reindex(c.Request.Context(), req.Clear)
	if err != nil {
		ac.fail(c, "indexing failed", err)
		return
	}

	if ac.resultCache != nil {
		if err := ac.resultCache.Invalidate(c.Request.Context()); err != nil {
			ac.logger.Warn("could not invalidate result cache after reindex", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, run)
}

// InvalidateCache drops all cached search results.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if ac.resultCache == nil {
		c.JSON(http.StatusOK, gin.H{"invalidated": false})
		return
	}

	if err := ac.resultCache.Invalidate(c.Request.Context()); err != nil {
		ac.fail(c, "cache invalidation failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invalidated": true})
}

// GetStats reports index and cache health.
func (ac *AdminController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	docs, err := ac.stats()
	if err != nil {
		ac.logger.Warn("could not fetch index stats", zap.Error(err))
	}

	stored, err := ac.contentStore.Count(ctx)
	if err != nil {
		ac.logger.Warn("could not count stored posts", zap.Error(err))
	}

	lastRun, err := ac.indexService.LastRun(ctx)
	if err != nil {
		ac.logger.Warn("could not load last index run", zap.Error(err))
	}

	resp := responses.StatsResponse{
		IndexedDocuments: docs,
		StoredPosts:      stored,
		LastIndexRun:     lastRun,
	}
	if ac.resultCache != nil {
		resp.ResultCache = ac.resultCache.Stats()
	}

	c.JSON(http.StatusOK, resp)
}

func (ac *AdminController) fail(c *gin.Context, message string, err error) {
	ac.logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
	})
}
