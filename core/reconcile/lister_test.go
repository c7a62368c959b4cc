package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAllSinglePage(t *testing.T) {
	fetch := func(ctx context.Context, token string) ([]string, string, error) {
		assert.Equal(t, "", token)
		return []string{"a", "b"}, "", nil
	}

	items, err := ListAll(context.Background(), "acl rules", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestListAllFollowsPageTokens(t *testing.T) {
	pages := map[string]struct {
		items []string
		next  string
	}{
		"":   {items: []string{"a"}, next: "p2"},
		"p2": {items: []string{"b", "c"}, next: "p3"},
		"p3": {items: []string{"d"}, next: ""},
	}

	var calls int
	fetch := func(ctx context.Context, token string) ([]string, string, error) {
		calls++
		page := pages[token]
		return page.items, page.next, nil
	}

	items, err := ListAll(context.Background(), "acl rules", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
	assert.Equal(t, 3, calls)
}

func TestListAllDiscardsOnFailure(t *testing.T) {
	boom := errors.New("rate limited")
	fetch := func(ctx context.Context, token string) ([]string, string, error) {
		if token == "" {
			return []string{"a"}, "p2", nil
		}
		return nil, "", boom
	}

	items, err := ListAll(context.Background(), "acl rules", fetch)

	// The page accumulated before the failure is discarded.
	assert.Nil(t, items)

	var listErr *ListError
	require.ErrorAs(t, err, &listErr)
	assert.Equal(t, "acl rules", listErr.Collection)
	assert.ErrorIs(t, err, boom)
}
