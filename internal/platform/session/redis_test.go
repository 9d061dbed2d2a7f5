package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	timex "github.com/ferdiebergado/roomkit/internal/pkg/time"
	"github.com/redis/go-redis/v9"
)

func newManager(t *testing.T) (*session.RedisManager, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Session{TTL: timex.Duration{Duration: time.Hour}, IDLength: 32}
	return session.NewRedisManager(client, cfg), srv
}

func TestRedisManager_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, srv := newManager(t)

	sess, err := mgr.Establish(ctx, "user-1", "fgp-1")
	if err != nil {
		t.Fatal(err)
	}

	if sess.ID == "" {
		t.Fatal("session id is empty")
	}

	if ttl := srv.TTL("session:" + sess.ID); ttl != time.Hour {
		t.Errorf("ttl = %v, want: %v", ttl, time.Hour)
	}

	found, err := mgr.Find(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if found.UserID != "user-1" || found.Fingerprint != "fgp-1" || found.ID != sess.ID {
		t.Errorf("Find() = %+v, want user-1 with fgp-1", found)
	}

	srv.FastForward(10 * time.Minute)

	if err := mgr.Rebind(ctx, sess.ID, "fgp-2"); err != nil {
		t.Fatal(err)
	}

	found, err = mgr.Find(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if found.Fingerprint != "fgp-2" {
		t.Errorf("Fingerprint after Rebind = %q, want: %q", found.Fingerprint, "fgp-2")
	}

	if ttl := srv.TTL("session:" + sess.ID); ttl != 50*time.Minute {
		t.Errorf("ttl after Rebind = %v, want: %v", ttl, 50*time.Minute)
	}

	if err := mgr.Destroy(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Find(ctx, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Find after Destroy error = %v, want: %v", err, session.ErrNotFound)
	}
}

func TestRedisManager_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, srv := newManager(t)

	sess, err := mgr.Establish(ctx, "user-1", "fgp")
	if err != nil {
		t.Fatal(err)
	}

	srv.FastForward(2 * time.Hour)

	if _, err := mgr.Find(ctx, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Find expired session error = %v, want: %v", err, session.ErrNotFound)
	}

	if err := mgr.Rebind(ctx, sess.ID, "other"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Rebind expired session error = %v, want: %v", err, session.ErrNotFound)
	}
}

func TestRedisManager_DistinctIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t)

	a, err := mgr.Establish(ctx, "user-1", "fgp")
	if err != nil {
		t.Fatal(err)
	}

	b, err := mgr.Establish(ctx, "user-1", "fgp")
	if err != nil {
		t.Fatal(err)
	}

	if a.ID == b.ID {
		t.Error("two sessions share an id")
	}

	if _, err := mgr.Find(ctx, ""); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Find(\"\") error = %v, want: %v", err, session.ErrNotFound)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	if _, ok := session.FromContext(context.Background()); ok {
		t.Error("empty context should not carry a session")
	}

	ctx := session.NewContextWithSession(context.Background(), &session.Session{ID: "s"})
	sess, ok := session.FromContext(ctx)
	if !ok || sess.ID != "s" {
		t.Errorf("FromContext() = %+v, %v", sess, ok)
	}
}
