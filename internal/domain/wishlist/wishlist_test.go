package wishlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	tenantID, propertyID := uuid.New(), uuid.New()
	item, err := NewItem(tenantID, propertyID)
	require.NoError(t, err)
	assert.Equal(t, tenantID, item.TenantID())
	assert.Equal(t, propertyID, item.PropertyID())

	_, err = NewItem(uuid.Nil, propertyID)
	assert.Error(t, err)
}
