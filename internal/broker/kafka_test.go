package broker

import (
	"reflect"
	"testing"
)

func TestBrokersFromURL(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"kafka://localhost:9092", []string{"localhost:9092"}},
		{"kafka://k1:9092,k2:9092", []string{"k1:9092", "k2:9092"}},
		{"kafka://k1:9092, k2:9092/", []string{"k1:9092", "k2:9092"}},
		{"localhost:9092", []string{"localhost:9092"}},
		{"kafka://", nil},
	}
	for _, tc := range cases {
		got := brokersFromURL(tc.raw)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("brokersFromURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
