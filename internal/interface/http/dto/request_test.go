package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

func TestParseIDList(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   []uint
	}{
		{"absent", nil, nil},
		{"comma separated", []string{"1,3"}, []uint{1, 3}},
		{"repeated values", []string{"1,3", "4"}, []uint{1, 3, 4}},
		{"repeated id kept", []string{"2", "2"}, []uint{2, 2}},
		{"blank parts skipped", []string{" 5 , ,6", ""}, []uint{5, 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := ParseIDList("categoryId", tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestParseIDListRejectsBadIDs(t *testing.T) {
	for _, values := range [][]string{
		{"1,x"},
		{"0"},
		{"3", "-2"},
		{"1.5"},
		{"99999999999999999999999"},
	} {
		ids, err := ParseIDList("categoryId", values)
		require.Error(t, err, values)
		assert.Nil(t, ids)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "categoryId", appErr.Fields[0].FieldName)
		assert.Equal(t, "Must be a list of positive ids", appErr.Fields[0].Message)
	}
}

func TestPageQuery(t *testing.T) {
	req := PageQuery{Page: 2, Size: 5, Sort: "name,desc"}.PageRequest()
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 5, req.Size)
	assert.Equal(t, "name", req.Sort)
	assert.True(t, req.Desc)
}
