package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// OwnedCollection is any per-user collection the account deletion cascade
// must clear before removing the identity itself.
type OwnedCollection interface {
	CollectionName() string
	DeleteAllByOwner(ctx context.Context, ownerID uint) error
}

// ownedTable clears rows from a table keyed by a user_id column. It covers
// collections this binary does not otherwise manage (deployments sharing the
// database can list their own per-user tables in the configuration).
type ownedTable struct {
	db    *gorm.DB
	table string
}

// NewOwnedTable returns an OwnedCollection backed by the named table.
func NewOwnedTable(db *gorm.DB, table string) OwnedCollection {
	return &ownedTable{db: db, table: table}
}

func (t *ownedTable) CollectionName() string {
	return t.table
}

func (t *ownedTable) DeleteAllByOwner(ctx context.Context, ownerID uint) error {
	// Table names come from configuration, not request input.
	return t.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", t.table), ownerID).Error
}

// OwnedTables builds collections for every configured table name.
func OwnedTables(db *gorm.DB, tables []string) []OwnedCollection {
	collections := make([]OwnedCollection, 0, len(tables))
	for _, table := range tables {
		collections = append(collections, NewOwnedTable(db, table))
	}
	return collections
}
