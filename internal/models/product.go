package models

import "fmt"

type Product struct {
	ID            uint                      `gorm:"primaryKey"`
	Name          string                    `gorm:"not null"`
	Description   string                    `gorm:"not null"`
	Price         int                       `gorm:"not null"`
	Orders        []Order                   `gorm:"many2many:order_product_association"`
	OrdersDetails []OrderProductAssociation `gorm:"foreignKey:ProductID"`
}

func (p Product) String() string {
	return fmt.Sprintf("Product(id=%d, name=%q, price=%d)", p.ID, p.Name, p.Price)
}
