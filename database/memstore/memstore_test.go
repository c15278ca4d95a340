package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irsalhamdi/course-studio/core/authoring"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/irsalhamdi/course-studio/database"
	"github.com/irsalhamdi/course-studio/database/memstore"
)

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	c := course.Course{ID: "c1", OwnerID: "u1", Title: "Go"}
	if err := st.CreateCourse(ctx, c); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := st.WithinTx(ctx, func(tx authoring.Store) error {
		title := "Rust"
		if err := tx.UpdateCourse(ctx, c.ID, course.CourseUp{Title: &title}, time.Now()); err != nil {
			return err
		}
		if err := tx.CreateChapter(ctx, chapter.Chapter{ID: "h1", CourseID: c.ID, Title: "Intro"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	got, err := st.QueryCourse(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Go" {
		t.Fatalf("expected the update to be discarded, got title %q", got.Title)
	}

	chs, err := st.QueryChapters(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(chs) != 0 {
		t.Fatalf("expected no chapters, got %d", len(chs))
	}
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	err := st.WithinTx(ctx, func(tx authoring.Store) error {
		if err := tx.CreateCourse(ctx, course.Course{ID: "c1", OwnerID: "u1"}); err != nil {
			return err
		}
		return tx.WithinTx(ctx, func(inner authoring.Store) error {
			return inner.CreateChapter(ctx, chapter.Chapter{ID: "h1", CourseID: "c1"})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := st.QueryChapter(ctx, "c1", "h1"); err != nil {
		t.Fatalf("expected the nested write to be committed: %v", err)
	}
	if _, err := st.QueryChapter(ctx, "c2", "h1"); !errors.Is(err, database.ErrDBNotFound) {
		t.Fatalf("expected a chapter of another course to be not found, got %v", err)
	}
}

func TestQueryChaptersOrdered(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	for i, id := range []string{"h3", "h1", "h2"} {
		pos := []int{2, 0, 1}[i]
		if err := st.CreateChapter(ctx, chapter.Chapter{ID: id, CourseID: "c1", Position: pos}); err != nil {
			t.Fatal(err)
		}
	}

	chs, err := st.QueryChapters(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	for i, exp := range []string{"h1", "h2", "h3"} {
		if chs[i].ID != exp {
			t.Fatalf("position %d: expected %s, got %s", i, exp, chs[i].ID)
		}
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	st := memstore.New(category.Defaults...)

	cats, err := st.QueryCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(category.Defaults) {
		t.Fatalf("expected %d categories, got %d", len(category.Defaults), len(cats))
	}

	if _, err := st.QueryCategory(ctx, "missing"); !errors.Is(err, database.ErrDBNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
