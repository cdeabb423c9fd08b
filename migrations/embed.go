// Package migrations contiene el esquema SQL embebido en el binario.
package migrations

import "embed"

// FS archivos *.sql en orden alfabético de aplicación.
//
//go:embed *.sql
var FS embed.FS
