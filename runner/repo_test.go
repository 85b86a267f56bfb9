// Copyright 2020, Square, Inc.

package runner

import (
	"testing"

	"github.com/go-test/deep"
)

func TestMemoryRepo(t *testing.T) {
	repo := NewMemoryRepo()

	if _, err := repo.Get("nope"); err != ErrNotFound {
		t.Errorf("Get on empty repo returned %v, expected ErrNotFound", err)
	}
	if repo.Count() != 0 {
		t.Errorf("Count = %d, expected 0", repo.Count())
	}

	r := Result{RunID: "abc", State: STATE_COMPLETE}
	if err := repo.Add(r); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add(r); err != ErrConflict {
		t.Errorf("duplicate Add returned %v, expected ErrConflict", err)
	}
	if repo.Count() != 1 {
		t.Errorf("Count = %d, expected 1", repo.Count())
	}

	got, err := repo.Get("abc")
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(r, got); diff != nil {
		t.Error(diff)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll returned %d results, expected 1", len(all))
	}

	if err := repo.Remove("abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get("abc"); err != ErrNotFound {
		t.Errorf("Get after Remove returned %v, expected ErrNotFound", err)
	}
}
