package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/smd-api/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name      string
		in        dto.PageRequest
		wantPage  int
		wantLimit int
	}{
		{"vacío", dto.PageRequest{}, 1, 10},
		{"página negativa", dto.PageRequest{Page: -3, Limit: 20}, 1, 20},
		{"límite sobre el máximo", dto.PageRequest{Page: 2, Limit: 500}, 2, 100},
		{"límite negativo", dto.PageRequest{Page: 1, Limit: -1}, 1, 10},
		{"página enorme", dto.PageRequest{Page: 92233720368547760, Limit: 100}, dto.MaxPage, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	p := dto.PageRequest{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Offset())

	meta := dto.NewPageMeta(21, p)
	assert.Equal(t, dto.PageMeta{Total: 21, Page: 3, Limit: 10, TotalPages: 3}, meta)

	assert.Equal(t, 0, dto.NewPageMeta(0, p).TotalPages)
	assert.Equal(t, 2, dto.NewPageMeta(20, dto.PageRequest{Page: 1, Limit: 10}).TotalPages)
}

func TestPageRequest_OffsetNoDesborda(t *testing.T) {
	p := dto.PageRequest{Page: 92233720368547760, Limit: 100}
	p.DefaultPage()
	assert.GreaterOrEqual(t, p.Offset(), 0)
}
