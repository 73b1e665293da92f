package relations

import (
	"context"
	"fmt"
)

// MainRelations walks through the one-to-one and one-to-many examples.
// With seed set it first creates users, profiles and posts; re-seeding an
// already seeded database fails on the unique username.
func (q *Queries) MainRelations(ctx context.Context, seed bool) error {
	if seed {
		if err := q.seedRelations(ctx); err != nil {
			return err
		}
	}

	if _, err := q.ShowUsersWithProfiles(ctx); err != nil {
		return err
	}
	if _, err := q.GetUsersWithPosts(ctx); err != nil {
		return err
	}
	if _, err := q.GetPostsWithAuthors(ctx); err != nil {
		return err
	}
	if _, err := q.GetUsersWithPostsAndProfiles(ctx); err != nil {
		return err
	}
	if _, err := q.GetProfilesWithUsersWithPosts(ctx, "ivan"); err != nil {
		return err
	}
	return nil
}

func (q *Queries) seedRelations(ctx context.Context) error {
	for _, name := range []string{"ivan", "petr", "alice"} {
		if _, err := q.CreateUser(ctx, name); err != nil {
			return err
		}
	}

	ivan, err := q.GetUserByUsername(ctx, "ivan")
	if err != nil {
		return err
	}
	petr, err := q.GetUserByUsername(ctx, "petr")
	if err != nil {
		return err
	}
	if ivan == nil || petr == nil {
		return fmt.Errorf("seeded users not found")
	}

	if _, err := q.CreateUserProfile(ctx, ivan.ID, StrPtr("Ivan"), nil); err != nil {
		return err
	}
	if _, err := q.CreateUserProfile(ctx, petr.ID, StrPtr("Petr"), StrPtr("Petrovich")); err != nil {
		return err
	}

	if _, err := q.CreatePosts(ctx, ivan.ID, "SQLA 2.0", "Hello world", "Test post"); err != nil {
		return err
	}
	if _, err := q.CreatePosts(ctx, petr.ID, "Hello world", "Fast API intro", "Fast API Advanced"); err != nil {
		return err
	}
	return nil
}

// DemoM2M walks through the many-to-many examples. With seed set it creates
// orders and products, prints them through the plain relation, and adds a
// gift line to each order before printing the association rows.
func (q *Queries) DemoM2M(ctx context.Context, seed bool) error {
	if seed {
		if err := q.CreateOrdersAndProducts(ctx); err != nil {
			return err
		}
		if err := q.DemoGetOrdersWithProductsThroughSecondary(ctx); err != nil {
			return err
		}
		if _, err := q.CreateGiftProductForExistingOrders(ctx); err != nil {
			return err
		}
	}
	return q.DemoGetOrdersWithProductsWithAssoc(ctx)
}
