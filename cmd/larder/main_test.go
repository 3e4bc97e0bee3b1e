package main

import (
	"reflect"
	"testing"
)

func TestFirstPositional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want int
	}{
		{"only program name", []string{"larder"}, -1},
		{"plain token", []string{"larder", "status"}, 1},
		{"value flag consumes next token", []string{"larder", "--dir", "/tmp/ws", "status"}, 3},
		{"equals form consumes nothing extra", []string{"larder", "--dir=/tmp/ws", "status"}, 2},
		{"bool flag consumes nothing", []string{"larder", "--pretty", "status"}, 2},
		{"double dash ends flag parsing", []string{"larder", "--", "--pretty"}, 2},
		{"trailing double dash", []string{"larder", "--dir", "/tmp/ws", "--"}, -1},
		{"only flags", []string{"larder", "--pretty", "--format=edn"}, -1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstPositional(tt.in); got != tt.want {
				t.Fatalf("firstPositional(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandProductShortcut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare id",
			in:   []string{"larder", "prod-x7f2q"},
			want: []string{"larder", "products", "show", "prod-x7f2q"},
		},
		{
			name: "id after a value flag",
			in:   []string{"larder", "--dir", "/tmp/ws", "prod-x7f2q"},
			want: []string{"larder", "--dir", "/tmp/ws", "products", "show", "prod-x7f2q"},
		},
		{
			name: "id after an equals-form flag",
			in:   []string{"larder", "--format=edn", "prod-x7f2q"},
			want: []string{"larder", "--format=edn", "products", "show", "prod-x7f2q"},
		},
		{
			name: "id after a bool flag",
			in:   []string{"larder", "--pretty", "prod-x7f2q"},
			want: []string{"larder", "--pretty", "products", "show", "prod-x7f2q"},
		},
		{
			name: "id after double dash",
			in:   []string{"larder", "--dir", "/tmp/ws", "--", "prod-x7f2q"},
			want: []string{"larder", "--dir", "/tmp/ws", "--", "products", "show", "prod-x7f2q"},
		},
		{
			name: "trailing flags keep their place",
			in:   []string{"larder", "prod-x7f2q", "--reviews"},
			want: []string{"larder", "products", "show", "prod-x7f2q", "--reviews"},
		},
		{
			name: "spelled-out command untouched",
			in:   []string{"larder", "products", "show", "prod-x7f2q"},
			want: []string{"larder", "products", "show", "prod-x7f2q"},
		},
		{
			name: "ordinary word untouched",
			in:   []string{"larder", "status"},
			want: []string{"larder", "status"},
		},
		{
			name: "bare prefix untouched",
			in:   []string{"larder", "prod-"},
			want: []string{"larder", "prod-"},
		},
		{
			name: "no args untouched",
			in:   []string{"larder"},
			want: []string{"larder"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := expandProductShortcut(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expandProductShortcut(%v):\n got: %#v\nwant: %#v", tt.in, got, tt.want)
			}
		})
	}
}
