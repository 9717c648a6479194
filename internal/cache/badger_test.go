// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package cache

import (
	"errors"
	"testing"
	"time"
)

type cachedFood struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func openTestBadger(t *testing.T) *BadgerCache {
	t.Helper()
	b, err := OpenBadger("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerSaveLoad(t *testing.T) {
	b := openTestBadger(t)

	if err := b.Save("food:1", cachedFood{ID: 1, Name: "lime"}, 0); err != nil {
		t.Fatal(err)
	}

	var got cachedFood
	ok, err := b.Load("food:1", &got)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if got.Name != "lime" {
		t.Errorf("Name = %q, want lime", got.Name)
	}

	ok, err = b.Load("food:2", &got)
	if err != nil || ok {
		t.Errorf("missing key Load = %v, %v", ok, err)
	}
}

func TestBadgerClearAndLen(t *testing.T) {
	b := openTestBadger(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := b.Save(k, k, time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := b.Len(); err != nil || n != 3 {
		t.Fatalf("Len = %d, %v", n, err)
	}
	if err := b.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.Len(); n != 2 {
		t.Errorf("Len after Delete = %d, want 2", n)
	}

	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.Len(); n != 0 {
		t.Errorf("Len after Clear = %d", n)
	}
	if err := b.RunGC(); err != nil {
		t.Errorf("RunGC on in-memory store = %v", err)
	}
}

func TestBadgerClosed(t *testing.T) {
	b, err := OpenBadger("", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}

	var v string
	if _, err := b.Load("k", &v); !errors.Is(err, ErrClosed) {
		t.Errorf("Load after Close = %v, want ErrClosed", err)
	}
	if err := b.Save("k", "v", 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Save after Close = %v, want ErrClosed", err)
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenBadger(dir, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Save("k", 42, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = OpenBadger(dir, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	var v int
	ok, err := b.Load("k", &v)
	if err != nil || !ok || v != 42 {
		t.Errorf("Load after reopen = %v, %v, %d", ok, err, v)
	}
}
