package models

// OrderProductAssociation is a many-to-many link that carries its own data:
// how many units were ordered and at what unit price.
type OrderProductAssociation struct {
	ID        uint     `gorm:"primaryKey"`
	OrderID   uint     `gorm:"not null;uniqueIndex:idx_order_product_unique"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_order_product_unique"`
	Count     int      `gorm:"not null;default:1"`
	UnitPrice int      `gorm:"not null;default:0"`
	Order     *Order   `gorm:"foreignKey:OrderID"`
	Product   *Product `gorm:"foreignKey:ProductID"`
}

func (OrderProductAssociation) TableName() string {
	return "order_product_association"
}
