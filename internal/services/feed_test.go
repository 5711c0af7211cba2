package services

import (
	"testing"
	"time"

	"github.com/bmohak/echo/internal/models"
)

func ts(minute int) time.Time {
	return time.Date(2025, 6, 1, 12, minute, 0, 0, time.UTC)
}

func post(id int64, minute int) models.Post {
	return models.Post{ID: id, AuthorID: id * 10, CreatedAt: ts(minute)}
}

func repost(postID, userID int64, minute int) models.Repost {
	p := post(postID, 0)
	return models.Repost{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: ts(minute),
		Post:      &p,
		User:      &models.User{ID: userID},
	}
}

func TestMergeTimelineOrdering(t *testing.T) {
	posts := []models.Post{post(1, 10), post(2, 30)}
	reposts := []models.Repost{repost(3, 7, 20)}

	items := mergeTimeline(posts, reposts, 10)
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	gotIDs := []int64{items[0].Post.ID, items[1].Post.ID, items[2].Post.ID}
	wantIDs := []int64{2, 3, 1}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("items[%d].Post.ID = %d, want %d (order %v)", i, gotIDs[i], wantIDs[i], gotIDs)
		}
	}
	if items[1].RepostedBy == nil || items[1].RepostedBy.ID != 7 {
		t.Error("repost entry should carry the reposter")
	}
	if items[0].RepostedBy != nil || items[2].RepostedBy != nil {
		t.Error("plain post entries should not carry a reposter")
	}
}

func TestMergeTimelineRepostOrderedByRepostTime(t *testing.T) {
	// the post itself is old but the repost is fresh
	posts := []models.Post{post(1, 25)}
	reposts := []models.Repost{repost(2, 9, 40)}

	items := mergeTimeline(posts, reposts, 10)
	if items[0].Post.ID != 2 {
		t.Errorf("fresh repost of an old post should lead, got post %d first", items[0].Post.ID)
	}
	if !items[0].Timestamp.Equal(ts(40)) {
		t.Errorf("repost entry timestamp = %v, want repost time %v", items[0].Timestamp, ts(40))
	}
}

func TestMergeTimelineLimit(t *testing.T) {
	posts := []models.Post{post(1, 1), post(2, 2), post(3, 3)}
	items := mergeTimeline(posts, nil, 2)
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Post.ID != 3 || items[1].Post.ID != 2 {
		t.Errorf("limit should keep the newest entries, got %d, %d", items[0].Post.ID, items[1].Post.ID)
	}
}

func TestMergeTimelineSkipsUnloadedReposts(t *testing.T) {
	reposts := []models.Repost{{PostID: 1, UserID: 2, CreatedAt: ts(5)}}
	items := mergeTimeline(nil, reposts, 10)
	if len(items) != 0 {
		t.Errorf("repost without loaded post should be dropped, got %d items", len(items))
	}
}

func TestMergeTimelineKeepsBothPostAndRepostEntries(t *testing.T) {
	posts := []models.Post{post(1, 10)}
	reposts := []models.Repost{repost(1, 5, 20)}
	items := mergeTimeline(posts, reposts, 10)
	if len(items) != 2 {
		t.Fatalf("post reposted by another user should appear twice, got %d", len(items))
	}
}
