// Package models declares the relational schema used by the relations demo.
package models

// All lists every model in creation order, for migrations.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Post{},
		&Order{},
		&Product{},
		&OrderProductAssociation{},
	}
}
