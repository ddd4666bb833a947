package game

import (
	"math/rand"
	"testing"
)

func TestValueFixed(t *testing.T) {
	v := Fixed(3)
	if !v.IsSet() || v.Resolve() != 3 {
		t.Errorf("expected set 3, got %v %f", v.IsSet(), v.Resolve())
	}
}

func TestValueGenResolvesEachTime(t *testing.T) {
	calls := 0
	v := Gen(func() float64 {
		calls++
		return float64(calls)
	})
	if v.Resolve() != 1 || v.Resolve() != 2 {
		t.Error("generator should be called on every resolve")
	}
}

func TestValueOr(t *testing.T) {
	var unset Value
	if unset.IsSet() {
		t.Error("zero value should be unset")
	}
	if got := unset.Or(Fixed(7)).Resolve(); got != 7 {
		t.Errorf("expected default 7, got %f", got)
	}
	if got := Fixed(0).Or(Fixed(7)).Resolve(); got != 0 {
		t.Errorf("explicit zero must win over default, got %f", got)
	}
}

func TestUniformRange(t *testing.T) {
	v := Uniform(rand.New(rand.NewSource(3)), -0.04, 0.04)
	for i := 0; i < 1000; i++ {
		x := v.Resolve()
		if x < -0.04 || x >= 0.04 {
			t.Fatalf("value %f outside [-0.04, 0.04)", x)
		}
	}
}
