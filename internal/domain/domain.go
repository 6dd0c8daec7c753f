// Package domain holds the persistence model for the medicinal plant
// catalog. Column and JSON names keep the Portuguese wire contract the
// public API has always exposed.
package domain
