package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResponseThroughWrapping(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("handler: %w", PreconditionFailed(base, []string{"title", "price"}))

	body, status, ok := Response(err)
	if !ok {
		t.Fatal("expected a response to be found")
	}
	if status != http.StatusPreconditionFailed {
		t.Fatalf("expected status %d, got %d", http.StatusPreconditionFailed, status)
	}

	exp := &ErrorResponse{
		Error:   "the resource does not meet the requirements",
		Missing: []string{"title", "price"},
	}
	if diff := cmp.Diff(exp, body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}

	if !errors.Is(err, base) {
		t.Fatal("expected the original error to stay reachable")
	}
}

func TestFields(t *testing.T) {
	err := Invalid(errors.New("bad"), map[string]string{"price": "too low"}, WithFields(map[string]any{"course_id": "c1"}))

	fields, ok := Fields(err)
	if !ok {
		t.Fatal("expected log fields")
	}
	if fields["course_id"] != "c1" {
		t.Fatalf("expected course_id field, got %v", fields)
	}

	body, status, ok := Response(err)
	if !ok || status != http.StatusBadRequest {
		t.Fatalf("expected a 400 response, got %d (found %v)", status, ok)
	}
	if got := body.Fields["price"]; got != "too low" {
		t.Fatalf("expected price field message, got %q", got)
	}
}

func TestNoResponse(t *testing.T) {
	if _, _, ok := Response(errors.New("plain")); ok {
		t.Fatal("plain errors carry no response")
	}
}
