package bookreview

import "testing"

func TestDropReview(t *testing.T) {
	reviews := []Review{
		{ID: 1, BookID: 5, UserID: 7},
		{ID: 2, BookID: 5, UserID: 8},
		{ID: 3, BookID: 5, UserID: 9},
	}

	got := DropReview(reviews, 2)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("got %+v, want ids 1 and 3 in order", got)
	}

	// Unknown id leaves the list intact.
	got = DropReview(reviews, 42)
	if len(got) != 3 {
		t.Fatalf("got %d reviews, want 3", len(got))
	}

	if got := DropReview(nil, 1); len(got) != 0 {
		t.Fatalf("got %+v from empty input", got)
	}
}
