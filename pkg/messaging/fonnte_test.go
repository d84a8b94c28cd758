package messaging

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"local leading zero", "08123456789", "628123456789"},
		{"already international", "628123456789", "628123456789"},
		{"plus prefix", "+628123456789", "628123456789"},
		{"surrounding spaces", " 08123456789 ", "628123456789"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePhone(tc.in)
			if got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}
