package models

import (
	"fmt"
	"time"
)

// Order links to products two ways: Products is the plain secondary view through
// order_product_association, ProductsDetails exposes the association rows themselves.
type Order struct {
	ID              uint                      `gorm:"primaryKey"`
	Promocode       *string                   `gorm:"size:255"`
	CreatedAt       time.Time                 `gorm:"not null"`
	Products        []Product                 `gorm:"many2many:order_product_association"`
	ProductsDetails []OrderProductAssociation `gorm:"foreignKey:OrderID"`
}

func (o Order) String() string {
	promo := "None"
	if o.Promocode != nil {
		promo = *o.Promocode
	}
	return fmt.Sprintf("Order(id=%d, promocode=%s)", o.ID, promo)
}
