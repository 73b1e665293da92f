package relations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"authrel-demo/internal/models"
)

func (q *Queries) CreateUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{Username: username}
	if err := q.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	q.println("user", user)
	return user, nil
}

// GetUserByUsername returns nil without an error when no user matches.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := q.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	var found *models.User
	if err == nil {
		found = &user
	}
	q.println("found user", username, found)
	return found, nil
}

func (q *Queries) CreateUserProfile(ctx context.Context, userID uint, firstName, lastName *string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := q.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create profile for user %d: %w", userID, err)
	}
	return profile, nil
}

// ShowUsersWithProfiles loads each user's profile in the same query (LEFT JOIN).
func (q *Queries) ShowUsersWithProfiles(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := q.db.WithContext(ctx).
		Joins("Profile").
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("users with profiles: %w", err)
	}
	for _, user := range users {
		q.println(user)
	}
	return users, nil
}

func (q *Queries) CreatePosts(ctx context.Context, userID uint, titles ...string) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(titles))
	for _, title := range titles {
		posts = append(posts, models.Post{Title: title, UserID: userID})
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := q.db.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("create posts for user %d: %w", userID, err)
	}
	q.println(posts)
	return posts, nil
}

// GetUsersWithPosts loads posts with a second SELECT ... WHERE user_id IN (...).
func (q *Queries) GetUsersWithPosts(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := q.db.WithContext(ctx).
		Preload("Posts", orderBy("posts.id")).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("users with posts: %w", err)
	}
	for _, user := range users {
		q.println(strings.Repeat("*", 20))
		q.println(user)
		for _, post := range user.Posts {
			q.println("---", post)
		}
	}
	return users, nil
}

// GetPostsWithAuthors joins each post to its author.
func (q *Queries) GetPostsWithAuthors(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := q.db.WithContext(ctx).
		Joins("User").
		Order("posts.id").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("posts with authors: %w", err)
	}
	for _, post := range posts {
		q.println("post", post)
		q.println("author", post.User)
	}
	return posts, nil
}

// GetUsersWithPostsAndProfiles combines a joined profile with select-in posts.
func (q *Queries) GetUsersWithPostsAndProfiles(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := q.db.WithContext(ctx).
		Joins("Profile").
		Preload("Posts", orderBy("posts.id")).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("users with posts and profiles: %w", err)
	}
	for _, user := range users {
		firstName := "None"
		if user.Profile != nil && user.Profile.ID != 0 {
			firstName = deref(user.Profile.FirstName)
		}
		q.println(strings.Repeat("*", 20))
		q.println(user, firstName)
		for _, post := range user.Posts {
			q.println("---", post)
		}
	}
	return users, nil
}

// GetProfilesWithUsersWithPosts filters profiles by their user's username and
// loads the user together with the user's posts.
func (q *Queries) GetProfilesWithUsersWithPosts(ctx context.Context, username string) ([]models.Profile, error) {
	var profiles []models.Profile
	err := q.db.WithContext(ctx).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ?", username).
		Preload("User.Posts", orderBy("posts.id")).
		Order("profiles.id").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("profiles of %s with posts: %w", username, err)
	}
	for _, profile := range profiles {
		q.println(deref(profile.FirstName), profile.User)
		if profile.User != nil {
			q.println(profile.User.Posts)
		}
	}
	return profiles, nil
}

func orderBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}
