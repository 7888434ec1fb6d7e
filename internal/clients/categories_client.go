package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"merchant-console/internal/models"
)

const categoryTreeCacheKey = "console:categories:tree"

// CategoriesClient reads the display category tree, caching it in Redis
type CategoriesClient struct {
	backend *BackendClient
	redis   *redis.Client
	ttl     time.Duration
}

// NewCategoriesClient creates a categories client. A nil redis client disables caching.
func NewCategoriesClient(backend *BackendClient, redisClient *redis.Client, ttl time.Duration) *CategoriesClient {
	return &CategoriesClient{backend: backend, redis: redisClient, ttl: ttl}
}

func (c *CategoriesClient) GetCategoryTree(ctx context.Context) ([]models.Category, error) {
	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, categoryTreeCacheKey).Bytes(); err == nil {
			var tree []models.Category
			if err := json.Unmarshal(cached, &tree); err == nil {
				return tree, nil
			}
		} else if err != redis.Nil {
			c.backend.logger.WithError(err).Warn("category cache read failed")
		}
	}

	tree := []models.Category{}
	if err := c.backend.doRequest(ctx, http.MethodGet, "/api/categories/tree", nil, nil, &tree,
		"failed to load categories"); err != nil {
		return nil, err
	}

	if c.redis != nil {
		if data, err := json.Marshal(tree); err == nil {
			if err := c.redis.Set(ctx, categoryTreeCacheKey, data, c.ttl).Err(); err != nil {
				c.backend.logger.WithError(err).Warn("category cache write failed")
			}
		}
	}
	return tree, nil
}

func (c *CategoriesClient) GetSubCategories(ctx context.Context, parentID int64) ([]models.Category, error) {
	children := []models.Category{}
	params := url.Values{"parentId": {strconv.FormatInt(parentID, 10)}}
	if err := c.backend.doRequest(ctx, http.MethodGet, "/api/categories/children", params, nil, &children,
		"failed to load sub categories"); err != nil {
		return nil, err
	}
	return children, nil
}
