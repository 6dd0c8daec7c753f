// Package dbctx threads the request context and, when a write spans
// several tables, the enclosing transaction down to the repositories.
package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context is the first argument of every repository method. Tx is nil
// outside a transaction; each repository falls back to its own handle.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
