package memstore_test

import (
	"context"
	"testing"

	"github.com/joy-dx/rxnet/cache/memstore"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	if err := s.Set(ctx, "k", []byte("hello world")); err != nil {
		t.Fatal(err)
	}
	data, found, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatalf("expected 'true' got '%v'", found)
	}
	if string(data) != "hello world" {
		t.Fatalf("expected 'hello world' got '%s'", data)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	src := []byte("abc")
	_ = s.Set(ctx, "k", src)
	src[0] = 'x'

	data, _, _ := s.Get(ctx, "k")
	data[1] = 'y'

	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("expected 'abc' got '%s'", again)
	}
}

func TestEmptyGet(t *testing.T) {
	_, found, err := memstore.New().Get(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_ = s.Set(ctx, "a", []byte("1"))
	_ = s.Set(ctx, "b", []byte("2"))

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry got %d", s.Len())
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected 0 entries got %d", s.Len())
	}
}
