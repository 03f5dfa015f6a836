package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name       string
		adult      float64
		child      float64
		companions []Participant
		want       float64
	}{
		{"lead alone", 100, 60, nil, 100},
		{"one adult one child companion", 100, 60, []Participant{{Child: false}, {Child: true}}, 260},
		{"adult companion and two children", 100, 60, []Participant{{Child: false}, {Child: true}, {Child: true}}, 320},
		{"all children", 100, 60, []Participant{{Child: true}, {Child: true}}, 220},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ComputeTotal(tc.adult, tc.child, tc.companions), 0.001)
		})
	}
}
