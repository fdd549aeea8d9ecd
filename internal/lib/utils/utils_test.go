package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pancakes":               "pancakes",
		"Grandma's Apple Pie":    "grandma-s-apple-pie",
		"  Spicy -- Ramen!!  ":   "spicy-ramen",
		"Crème Brûlée (Classic)": "creme-brulee-classic",
		"5 Minute Oats":          "5-minute-oats",
		"寿司":                     "",
		"":                       "",
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slugify(in))
		})
	}
}
