package database

import (
	"context"
	"time"

	"blog-service/accounts"
	"blog-service/models"
	"blog-service/store"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

var samplePosts = []models.Post{
	{
		Title:    "Welcome to the Blog Platform",
		Content:  "This is our first blog post. We're excited to share our thoughts and ideas with you!",
		Category: "General",
		Tags:     []string{"welcome", "first-post"},
	},
	{
		Title:    "Getting Started with Spring Boot",
		Content:  "Spring Boot makes it easy to create stand-alone, production-grade Spring based Applications.",
		Category: "Technology",
		Tags:     []string{"spring-boot", "java", "tutorial"},
	},
}

// Seed makes sure the admin user and the sample posts exist.
// Sample posts are keyed on title, so running it again inserts nothing.
func Seed(ctx context.Context, st *store.Store, bcryptCost int) error {
	admin, err := accounts.EnsureAdmin(ctx, st, bcryptCost)
	if err != nil {
		return err
	}

	inserted := 0
	for _, sample := range samplePosts {
		exists, err := st.PostTitleExists(ctx, sample.Title)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		post := sample
		post.Tags = append([]string(nil), sample.Tags...)
		post.Author = admin
		post.CreatedAt = time.Now().UTC()
		post.UpdatedAt = post.CreatedAt
		if err := st.CreatePost(ctx, &post); err != nil {
			return err
		}
		inserted++
	}

	logger.Info("Seed complete", zap.Int64("admin_id", admin.ID), zap.Int("posts_inserted", inserted))
	return nil
}
