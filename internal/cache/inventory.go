package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix  = "post:%d"
	GroupKeyPrefix = "group:%s"
)

const (
	PostTTL  = 10 * time.Minute
	GroupTTL = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateContent drops every cached post and group. Bulk deletes use it,
// since a removed group nulls its posts' group_id and a removed author takes
// their posts along.
func InvalidateContent(ctx context.Context) error {
	if client == nil {
		return nil
	}
	for _, pattern := range []string{"post:*", "group:*"} {
		iter := client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}
