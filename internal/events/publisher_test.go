package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"merchant-console/internal/models"
)

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher

	assert.NoError(t, p.PublishProductCreated(context.Background(), 1, "owner-1", models.CreateOptionProductRequest{}))
	assert.NoError(t, p.PublishStoreUpdated(context.Background(), 1, "owner-1", "work_condition", "OPEN"))
	assert.NotPanics(t, p.Close)
}
