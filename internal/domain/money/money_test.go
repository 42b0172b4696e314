package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salon/internal/domain/errs"
)

func TestCheckScale(t *testing.T) {
	cases := []struct {
		raw  string
		ok   bool
		want string
	}{
		{"20", true, "20"},
		{"10.5", true, "10.5"},
		{"10.500", true, "10.5"},
		{"33.33", true, "33.33"},
		{"-0.01", true, "-0.01"},
		{"10.005", false, ""},
		{"33.333", false, ""},
		{"0.001", false, ""},
	}
	for _, tc := range cases {
		got, err := CheckScale("price", decimal.RequireFromString(tc.raw))
		if !tc.ok {
			var verr *errs.ValidationError
			if !errors.As(err, &verr) || verr.Field != "price" {
				t.Fatalf("%s: expected validation error on price, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.raw, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}
