package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
)

func newTestRepo(t *testing.T) *db.Repository {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.College{}, &models.User{}, &models.Follow{},
		&models.Post{}, &models.Like{}, &models.Dislike{}, &models.Repost{},
		&models.Notification{}, &models.Report{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewRepository(gdb)
}

func seedUser(t *testing.T, repo *db.Repository, username string) *models.User {
	t.Helper()
	colleges := db.NewCollegeRepository(repo)
	college, err := colleges.GetByDomain(context.Background(), "test.edu")
	if err != nil {
		t.Fatalf("get college: %v", err)
	}
	if college == nil {
		college = &models.College{Name: "Test College", Domain: "test.edu"}
		if err := colleges.Create(context.Background(), college); err != nil {
			t.Fatalf("create college: %v", err)
		}
	}
	user := &models.User{
		Username:     username,
		IdentityKey:  "key-" + username,
		PasswordHash: "irrelevant",
		Privacy:      models.PrivacyPublic,
		CollegeID:    college.ID,
	}
	if err := db.NewUserRepository(repo).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func seedPost(t *testing.T, repo *db.Repository, authorID int64, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, Privacy: models.PostPrivacyAnyone, AuthorID: authorID}
	if err := db.NewPostRepository(repo).Create(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func inboxCount(t *testing.T, repo *db.Repository, userID int64, notifType string) int {
	t.Helper()
	notifs, err := db.NewNotificationRepository(repo).ListInbox(context.Background(), userID, 50)
	if err != nil {
		t.Fatalf("list inbox: %v", err)
	}
	n := 0
	for _, notif := range notifs {
		if notif.Type == notifType {
			n++
		}
	}
	return n
}

func TestToggleLikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bobby")
	post := seedPost(t, repo, bob.ID, "hello")
	svc := NewInteractionService(repo)
	interactions := db.NewInteractionRepository(repo)

	liked, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked {
		t.Error("first toggle should set the like")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeLike); got != 1 {
		t.Errorf("author should hold 1 LIKE notification, got %d", got)
	}

	liked, err = svc.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleLike (off): %v", err)
	}
	if liked {
		t.Error("second toggle should clear the like")
	}
	if row, _ := interactions.GetLike(ctx, post.ID, alice.ID); row != nil {
		t.Error("like row should be gone after the round trip")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeLike); got != 0 {
		t.Errorf("LIKE notification should be deleted with the like, got %d", got)
	}
}

func TestToggleLikeClearsDislike(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bobby")
	post := seedPost(t, repo, bob.ID, "hello")
	svc := NewInteractionService(repo)
	interactions := db.NewInteractionRepository(repo)

	if _, err := svc.ToggleDislike(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("ToggleDislike: %v", err)
	}
	liked, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked {
		t.Error("like should be set")
	}
	if row, _ := interactions.GetDislike(ctx, post.ID, alice.ID); row != nil {
		t.Error("dislike must not survive a like")
	}
	if row, _ := interactions.GetLike(ctx, post.ID, alice.ID); row == nil {
		t.Error("like row should exist")
	}
}

func TestToggleDislikeClearsLikeAndNotification(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bobby")
	post := seedPost(t, repo, bob.ID, "hello")
	svc := NewInteractionService(repo)
	interactions := db.NewInteractionRepository(repo)

	if _, err := svc.ToggleLike(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	disliked, err := svc.ToggleDislike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleDislike: %v", err)
	}
	if !disliked {
		t.Error("dislike should be set")
	}
	if row, _ := interactions.GetLike(ctx, post.ID, alice.ID); row != nil {
		t.Error("like must not survive a dislike")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeLike); got != 0 {
		t.Errorf("LIKE notification should be cleared with the like, got %d", got)
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeAdmin); got != 0 {
		t.Errorf("unexpected notifications in inbox: %d", got)
	}
}

func TestToggleRepostRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bobby")
	post := seedPost(t, repo, bob.ID, "hello")
	svc := NewInteractionService(repo)
	interactions := db.NewInteractionRepository(repo)

	reposted, err := svc.ToggleRepost(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleRepost: %v", err)
	}
	if !reposted {
		t.Error("first toggle should set the repost")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeRepost); got != 1 {
		t.Errorf("author should hold 1 REPOST notification, got %d", got)
	}

	reposted, err = svc.ToggleRepost(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleRepost (off): %v", err)
	}
	if reposted {
		t.Error("second toggle should clear the repost")
	}
	if row, _ := interactions.GetRepost(ctx, post.ID, alice.ID); row != nil {
		t.Error("repost row should be gone after the round trip")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeRepost); got != 0 {
		t.Errorf("REPOST notification should be deleted with the repost, got %d", got)
	}
}

func TestToggleLikeOwnPostSkipsNotification(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	post := seedPost(t, repo, alice.ID, "note to self")
	svc := NewInteractionService(repo)

	liked, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked {
		t.Error("like should apply to own post")
	}
	if got := inboxCount(t, repo, alice.ID, models.NotifyTypeLike); got != 0 {
		t.Errorf("liking your own post must not notify, got %d", got)
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	svc := NewInteractionService(repo)

	if _, err := svc.ToggleLike(context.Background(), alice.ID, 999); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("error = %v, want ErrPostNotFound", err)
	}
}

func TestToggleFollowRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bobby")
	svc := NewInteractionService(repo)
	users := db.NewUserRepository(repo)

	following, err := svc.ToggleFollow(ctx, alice.ID, bob.Username)
	if err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	if !following {
		t.Error("first toggle should create the follow")
	}
	if ok, _ := users.IsFollowing(ctx, alice.ID, bob.ID); !ok {
		t.Error("follow edge should exist")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeFollow); got != 1 {
		t.Errorf("followee should hold 1 FOLLOW notification, got %d", got)
	}

	following, err = svc.ToggleFollow(ctx, alice.ID, bob.Username)
	if err != nil {
		t.Fatalf("ToggleFollow (off): %v", err)
	}
	if following {
		t.Error("second toggle should remove the follow")
	}
	if ok, _ := users.IsFollowing(ctx, alice.ID, bob.ID); ok {
		t.Error("follow edge should be gone")
	}
	if got := inboxCount(t, repo, bob.ID, models.NotifyTypeFollow); got != 0 {
		t.Errorf("FOLLOW notification should be deleted on unfollow, got %d", got)
	}
}

func TestToggleFollowRejections(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "alice")
	svc := NewInteractionService(repo)

	if _, err := svc.ToggleFollow(ctx, alice.ID, alice.Username); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("self follow error = %v, want ErrSelfFollow", err)
	}
	if _, err := svc.ToggleFollow(ctx, alice.ID, "nobody99"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}
