// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

func TestUserRegister(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := "test-register"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	u, err := s.Register(ctx, models.UserRegistration{
		Username: username,
		Email:    "test-register@store-test.local",
		FullName: "Test Register",
		Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if u.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if !u.IsActive {
		t.Error("new users start active")
	}
	if u.IsSuperuser {
		t.Error("new users are not superusers")
	}
	if u.PasswordHash == "" || u.PasswordHash == "testpass123" {
		t.Error("password must be stored as a non-plaintext hash")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("timestamps are store-assigned on create")
	}
}

func TestUserRegisterConflicts(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanUsers(t, db, "test-conflict-a", "test-conflict-b") })

	_, err := s.Register(ctx, models.UserRegistration{
		Username: "test-conflict-a",
		Email:    "test-conflict-a@store-test.local",
		FullName: "A",
		Password: "pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Same username, different email.
	_, err = s.Register(ctx, models.UserRegistration{
		Username: "test-conflict-a",
		Email:    "test-conflict-b@store-test.local",
		FullName: "B",
		Password: "pass",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate username: expected Conflict, got %v", err)
	}

	// Same email, different username.
	_, err = s.Register(ctx, models.UserRegistration{
		Username: "test-conflict-b",
		Email:    "test-conflict-a@store-test.local",
		FullName: "B",
		Password: "pass",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate email: expected Conflict, got %v", err)
	}
}

// TestUserRegisterConcurrent: with two racing registrations for one
// username, the unique constraint guarantees exactly one row.
func TestUserRegisterConcurrent(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := "test-concurrent"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(ctx, models.UserRegistration{
				Username: username,
				Email:    username + "@store-test.local",
				FullName: "Race",
				Password: "pass",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !apperr.IsConflict(err) {
			t.Errorf("loser must observe Conflict, got %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one success, got %d", successes)
	}

	var rows int
	db.QueryRow("SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&rows)
	if rows != 1 {
		t.Errorf("expected exactly one row, got %d", rows)
	}
}

func TestUserAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := "test-auth"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	if _, err := s.Register(ctx, models.UserRegistration{
		Username: username,
		Email:    "test-auth@store-test.local",
		FullName: "Auth",
		Password: "right-password",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := s.Authenticate(ctx, username, "right-password")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u == nil {
		t.Fatal("expected user for correct credentials")
	}

	// Wrong password and unknown user look identical to the caller.
	u, err = s.Authenticate(ctx, username, "wrong-password")
	if err != nil || u != nil {
		t.Errorf("wrong password: want nil, nil; got %v, %v", u, err)
	}
	u, err = s.Authenticate(ctx, "no-such-user", "right-password")
	if err != nil || u != nil {
		t.Errorf("unknown user: want nil, nil; got %v, %v", u, err)
	}
}

func TestUserUpdatePatch(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := makeUser(t, db, "test-patch")

	bio := "Original bio"
	if _, err := db.Exec("UPDATE users SET bio = $1 WHERE id = $2", bio, u.ID); err != nil {
		t.Fatalf("seed bio: %v", err)
	}
	u, err := s.GetOrFail(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	// Absent fields stay untouched.
	name := "New Name"
	updated, err := s.Update(ctx, u, models.UserPatch{FullName: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FullName != "New Name" {
		t.Errorf("full name: got %q", updated.FullName)
	}
	if updated.Bio == nil || *updated.Bio != "Original bio" {
		t.Error("bio must be untouched by a patch that omits it")
	}

	// Explicit null clears.
	updated, err = s.Update(ctx, updated, models.UserPatch{Bio: models.Null[string]()})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Bio != nil {
		t.Error("explicit null must clear bio")
	}
}

func TestUserPostsCount(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := makeUser(t, db, "test-postcount")

	count, err := s.PostsCount(ctx, u.ID)
	if err != nil {
		t.Fatalf("PostsCount: %v", err)
	}
	if count != 0 {
		t.Errorf("new author: got %d posts", count)
	}

	// Unknown users count zero, not an error.
	count, err = s.PostsCount(ctx, uuid.New())
	if err != nil || count != 0 {
		t.Errorf("unknown author: got %d, %v", count, err)
	}

	t.Cleanup(func() { cleanPosts(t, db, "test-postcount-post") })
	ps := NewPostStore(db)
	if _, err := ps.CreatePost(ctx, models.PostInput{
		Title:   "Counted",
		Slug:    "test-postcount-post",
		Content: "body",
	}, u.ID); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	count, err = s.PostsCount(ctx, u.ID)
	if err != nil || count != 1 {
		t.Errorf("after one post: got %d, %v", count, err)
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := makeUser(t, db, "test-totp")

	if err := s.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	u, _ = s.GetOrFail(ctx, u.ID)
	if !u.Needs2FASetup() {
		t.Error("secret set but not enabled means setup pending")
	}

	if err := s.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	u, _ = s.GetOrFail(ctx, u.ID)
	if !u.TOTPEnabled {
		t.Error("expected totp_enabled")
	}

	if err := s.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	u, _ = s.GetOrFail(ctx, u.ID)
	if u.TOTPEnabled || u.TOTPSecret != nil {
		t.Error("reset must clear secret and disable 2FA")
	}
}

func TestUserRemoveIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := makeUser(t, db, "test-remove")

	removed, err := s.Remove(ctx, u.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed == nil || removed.ID != u.ID {
		t.Error("expected the removed row back")
	}

	// Second removal is a no-op returning absent.
	removed, err = s.Remove(ctx, u.ID)
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if removed != nil {
		t.Error("removing a missing id must return nil")
	}
}

func TestUserGetOrFail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	_, err := s.GetOrFail(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
	if err.Error() != "User not found" {
		t.Errorf("NotFound must carry the entity kind, got %q", err.Error())
	}
}
