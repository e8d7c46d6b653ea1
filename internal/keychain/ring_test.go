package keychain

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/99designs/keyring"

	"github.com/zx06/keychain/internal/errors"
)

func TestRingBackend_CRUD(t *testing.T) {
	ctx := context.Background()
	kc := New(NewRingBackend(keyring.NewArrayKeyring(nil)))
	if !kc.IsSupported() {
		t.Fatal("ring backend should be supported")
	}

	req := Request{Account: "drudge", Service: "svc1", Password: "пароль"}
	if _, err := kc.Set(ctx, req); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := kc.Get(ctx, Request{Account: "drudge", Service: "svc1"})
	if err != nil || got != "пароль" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := kc.Delete(ctx, req); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := kc.Delete(ctx, req); !errors.Is(err, errors.CodeNotFound) {
		t.Fatalf("second Delete: expected not found, got %v", err)
	}
}

func TestRingBackend_KeyLayout(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	b := NewRingBackend(ring)
	if err := b.Set(context.Background(), Request{Account: "a", Service: "example.com", Password: "pw", Type: TypeInternet}); err != nil {
		t.Fatal(err)
	}
	item, err := ring.Get("internet/example.com/a")
	if err != nil {
		t.Fatalf("expected item under internet/example.com/a: %v", err)
	}
	if item.Label != "example.com" || item.Description != "a" {
		t.Fatalf("unexpected item metadata: %+v", item)
	}
}

type brokenRing struct{ keyring.Keyring }

func (brokenRing) Get(string) (keyring.Item, error) { return keyring.Item{}, stderrors.New("locked") }

func TestRingBackend_BackendFailure(t *testing.T) {
	b := NewRingBackend(brokenRing{})
	_, err := b.Get(context.Background(), Request{Account: "a", Service: "s"})
	if !errors.Is(err, errors.CodeBackendFailed) {
		t.Fatalf("expected backend failure, got %v", err)
	}
}
