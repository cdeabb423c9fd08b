package postgres

import (
	"fmt"
	"strings"
)

// queryArgs acumula argumentos posicionales y devuelve su placeholder ($1, $2...).
type queryArgs struct {
	values []any
}

func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// whereBuilder arma un WHERE con condiciones AND sobre un mismo queryArgs.
type whereBuilder struct {
	args       *queryArgs
	conditions []string
}

func newWhere(args *queryArgs) *whereBuilder {
	return &whereBuilder{args: args}
}

// eq agrega "column = $n" si value no está vacío.
func (w *whereBuilder) eq(column, value string) {
	if value == "" {
		return
	}
	w.conditions = append(w.conditions, column+" = "+w.args.add(value))
}

// raw agrega una condición con "?" reemplazado por el placeholder de cada valor, en orden.
func (w *whereBuilder) raw(cond string, values ...any) {
	for _, v := range values {
		cond = strings.Replace(cond, "?", w.args.add(v), 1)
	}
	w.conditions = append(w.conditions, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

// updateBuilder arma "UPDATE table SET a = $1, b = $2 ... WHERE key = $n".
type updateBuilder struct {
	table string
	args  queryArgs
	sets  []string
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (u *updateBuilder) set(column string, value any) {
	u.sets = append(u.sets, column+" = "+u.args.add(value))
}

// setRaw agrega una expresión sin argumento (ej. updated_at = now()).
func (u *updateBuilder) setRaw(column, expr string) {
	u.sets = append(u.sets, column+" = "+expr)
}

// build devuelve la sentencia y sus argumentos. Sin columnas asignadas devuelve "".
func (u *updateBuilder) build(keyColumn string, key any) (string, []any) {
	if len(u.sets) == 0 {
		return "", nil
	}
	where := keyColumn + " = " + u.args.add(key)
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", u.table, strings.Join(u.sets, ", "), where), u.args.values
}
