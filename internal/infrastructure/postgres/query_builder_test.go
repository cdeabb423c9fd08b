package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateBuilder_SoloCamposInformados(t *testing.T) {
	u := newUpdate("smd_closings")
	u.set("monthly_rent", "150.00")
	u.set("notes", "renegociado")
	u.setRaw("updated_at", "now()")

	sql, args := u.build("smd_closing_id", "c-1")
	assert.Equal(t,
		"UPDATE smd_closings SET monthly_rent = $1, notes = $2, updated_at = now() WHERE smd_closing_id = $3",
		sql)
	assert.Equal(t, []any{"150.00", "renegociado", "c-1"}, args)
}

func TestUpdateBuilder_SinCambios(t *testing.T) {
	sql, args := newUpdate("smd_closings").build("smd_closing_id", "c-1")
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestWhereBuilder(t *testing.T) {
	var args queryArgs
	w := newWhere(&args)
	assert.Equal(t, "", w.String())

	w.eq("sc.smd_id", "")
	w.eq("sc.customer_id", "cust-1")
	w.raw("(s.smd_code ILIKE ? OR u.full_name ILIKE ?)", "%a%", "%a%")

	assert.Equal(t, "WHERE sc.customer_id = $1 AND (s.smd_code ILIKE $2 OR u.full_name ILIKE $3)", w.String())
	assert.Equal(t, []any{"cust-1", "%a%", "%a%"}, args.values)
	assert.Equal(t, "$4", args.add(10))
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%SMD\_01%`, likePattern("SMD_01"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
}
