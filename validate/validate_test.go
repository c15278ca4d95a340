package validate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-studio/validate"
)

type form struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"omitempty,finite,gte=0"`
	Ref   string   `json:"ref,omitempty" validate:"omitempty,uuid"`
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}

	var names []string
	for _, n := range []string{"name", "price", "ref"} {
		if fe[n] != "" {
			names = append(names, n)
		}
	}
	return names
}

func TestFields(t *testing.T) {
	neg := -1.0
	inf := math.Inf(1)
	zero := 0.0

	tests := []struct {
		name string
		val  form
		exp  []string
	}{
		{"valid", form{Name: "a", Price: &zero, Ref: validate.GenerateID()}, nil},
		{"all at once", form{Price: &neg, Ref: "x"}, []string{"name", "price", "ref"}},
		{"infinite price", form{Name: "a", Price: &inf}, []string{"price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Fields(tt.val)
			if tt.exp == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if diff := cmp.Diff(tt.exp, fieldNames(t, err)); diff != "" {
				t.Fatalf("unexpected fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := validate.FieldErrors{"price": "bad", "name": "missing"}

	if got, exp := fe.Error(), "name: missing; price: bad"; got != exp {
		t.Fatalf("expected %q, got %q", exp, got)
	}
}

func TestCheckID(t *testing.T) {
	if err := validate.CheckID(validate.GenerateID()); err != nil {
		t.Fatalf("generated id rejected: %v", err)
	}
	if err := validate.CheckID("course-1"); err == nil {
		t.Fatal("expected a malformed id to be rejected")
	}
}
