package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
)

func makeItems(n int) []string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf("p%d", i))
	}
	return items
}

func TestPaginateMiddlePage(t *testing.T) {
	items := makeItems(25)

	res, err := Paginate(items, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"p11", "p12", "p13", "p14", "p15", "p16", "p17", "p18", "p19", "p20"}, res.Items)
	assert.Equal(t, 25, res.TotalCount)
	assert.True(t, res.HasNext)
}

func TestPaginateLastPartialPage(t *testing.T) {
	items := makeItems(25)

	res, err := Paginate(items, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"p21", "p22", "p23", "p24", "p25"}, res.Items)
	assert.Equal(t, 25, res.TotalCount)
	assert.False(t, res.HasNext)
}

func TestPaginatePageBeyondRange(t *testing.T) {
	items := makeItems(5)

	res, err := Paginate(items, 7, 10)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 5, res.TotalCount)
	assert.False(t, res.HasNext)
}

func TestPaginateEmptyInput(t *testing.T) {
	res, err := Paginate([]string{}, 1, 10)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalCount)
	assert.False(t, res.HasNext)
}

func TestPaginateInvalidArguments(t *testing.T) {
	items := makeItems(3)

	_, err := Paginate(items, 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = Paginate(items, -2, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = Paginate(items, 1, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

// All pages concatenated reproduce the input with no duplicates or omissions.
func TestPaginateConcatenationReproducesInput(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 37} {
		for _, pageSize := range []int{1, 3, 10, 50} {
			items := makeItems(total)

			collected := make([]string, 0, total)
			page := 1
			for {
				res, err := Paginate(items, page, pageSize)
				require.NoError(t, err)
				assert.Equal(t, total, res.TotalCount)

				collected = append(collected, res.Items...)
				if !res.HasNext {
					break
				}
				page++
			}

			assert.Equal(t, items, collected, "total=%d pageSize=%d", total, pageSize)
		}
	}
}
