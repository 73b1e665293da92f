package relations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"authrel-demo/internal/models"
)

func (q *Queries) CreateOrder(ctx context.Context, promocode *string) (*models.Order, error) {
	order := &models.Order{Promocode: promocode}
	if err := q.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (q *Queries) CreateProduct(ctx context.Context, name, description string, price int) (*models.Product, error) {
	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := q.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("create product %s: %w", name, err)
	}
	return product, nil
}

// CreateOrdersAndProducts creates two orders and three products, then links them
// through the plain many-to-many relation in a single commit.
func (q *Queries) CreateOrdersAndProducts(ctx context.Context) error {
	orderOne, err := q.CreateOrder(ctx, nil)
	if err != nil {
		return err
	}
	orderPromo, err := q.CreateOrder(ctx, StrPtr("Ivan"))
	if err != nil {
		return err
	}

	mouse, err := q.CreateProduct(ctx, "Comp Mouse", "Big comp. mouse", 1000)
	if err != nil {
		return err
	}
	keyboard, err := q.CreateProduct(ctx, "Comp keyboard", "Gaming comp. keyboard", 2000)
	if err != nil {
		return err
	}
	display, err := q.CreateProduct(ctx, "Comp display", "Gaming comp. display", 5000)
	if err != nil {
		return err
	}

	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(orderOne).Association("Products").Append(mouse, keyboard); err != nil {
			return fmt.Errorf("link products to order %d: %w", orderOne.ID, err)
		}
		if err := tx.Model(orderPromo).Association("Products").Replace(keyboard, display); err != nil {
			return fmt.Errorf("link products to order %d: %w", orderPromo.ID, err)
		}
		return nil
	})
}

// GetOrdersWithProducts loads products through the association table, ignoring its extra columns.
func (q *Queries) GetOrdersWithProducts(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := q.db.WithContext(ctx).
		Preload("Products", orderBy("products.id")).
		Order("orders.id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders with products: %w", err)
	}
	return orders, nil
}

func (q *Queries) DemoGetOrdersWithProductsThroughSecondary(ctx context.Context) error {
	orders, err := q.GetOrdersWithProducts(ctx)
	if err != nil {
		return err
	}
	for _, order := range orders {
		q.println(order.ID, deref(order.Promocode), order.CreatedAt, "products:")
		for _, product := range order.Products {
			q.println("---", product.ID, product.Name, product.Price)
		}
	}
	return nil
}

// GetOrdersWithProductsAssoc loads the association rows of each order and the product of each row.
func (q *Queries) GetOrdersWithProductsAssoc(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := q.db.WithContext(ctx).
		Preload("ProductsDetails", orderBy("order_product_association.id")).
		Preload("ProductsDetails.Product").
		Order("orders.id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders with product details: %w", err)
	}
	return orders, nil
}

// CreateGiftProductForExistingOrders adds a free "Gift" line to every order.
func (q *Queries) CreateGiftProductForExistingOrders(ctx context.Context) (*models.Product, error) {
	orders, err := q.GetOrdersWithProductsAssoc(ctx)
	if err != nil {
		return nil, err
	}
	gift, err := q.CreateProduct(ctx, "Gift", "Gift for you", 0)
	if err != nil {
		return nil, err
	}

	err = q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			line := &models.OrderProductAssociation{
				OrderID:   orders[i].ID,
				ProductID: gift.ID,
				Count:     1,
				UnitPrice: 0,
			}
			if err := tx.Create(line).Error; err != nil {
				return fmt.Errorf("add gift to order %d: %w", orders[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gift, nil
}

func (q *Queries) DemoGetOrdersWithProductsWithAssoc(ctx context.Context) error {
	orders, err := q.GetOrdersWithProductsAssoc(ctx)
	if err != nil {
		return err
	}
	for _, order := range orders {
		q.println(order.ID, deref(order.Promocode), order.CreatedAt, "products:")
		for _, details := range order.ProductsDetails {
			if details.Product == nil {
				continue
			}
			q.println(
				"---",
				details.Product.ID,
				details.Product.Name,
				details.Product.Price,
				"qty:",
				details.Count,
			)
		}
	}
	return nil
}
