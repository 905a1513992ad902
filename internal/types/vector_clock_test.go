package types

import "testing"

func TestVectorClockPartialOrder(t *testing.T) {
	a := VectorClock{"a1": 2, "a2": 1}
	b := VectorClock{"a1": 3, "a2": 1}

	if !b.Dominates(a) {
		t.Fatal("expected b to dominate a")
	}
	if a.Dominates(b) {
		t.Fatal("a must not dominate b")
	}
	if a.Concurrent(b) {
		t.Fatal("a and b are ordered, not concurrent")
	}

	c := VectorClock{"a1": 1, "a2": 2}
	if a.Dominates(c) || c.Dominates(a) {
		t.Fatal("a and c should be concurrent")
	}
	if !a.Concurrent(c) {
		t.Fatal("expected a and c to be concurrent")
	}

	eq := a.Clone()
	if !a.Equal(eq) {
		t.Fatal("clone must equal original")
	}
	if a.Dominates(eq) || eq.Dominates(a) {
		t.Fatal("equal clocks must not dominate each other")
	}
}

func TestVectorClockCompareExactlyOneHolds(t *testing.T) {
	cases := []struct{ a, b VectorClock }{
		{VectorClock{"a": 1}, VectorClock{"a": 1}},
		{VectorClock{"a": 1}, VectorClock{"a": 2}},
		{VectorClock{"a": 2}, VectorClock{"a": 1}},
		{VectorClock{"a": 1, "b": 0}, VectorClock{"a": 0, "b": 1}},
	}
	for _, c := range cases {
		order := c.a.Compare(c.b)
		switch order {
		case OrderEqual, OrderBefore, OrderAfter, OrderConcurrent:
		default:
			t.Fatalf("unexpected order %v", order)
		}
	}
}

func TestCausallyDeliverable(t *testing.T) {
	local := VectorClock{"a1": 2}
	deliverable := VectorClock{"a1": 3}
	notYet := VectorClock{"a1": 4}

	if !CausallyDeliverable(deliverable, local) {
		t.Error("delta at local+1 should be deliverable")
	}
	if CausallyDeliverable(notYet, local) {
		t.Error("delta at local+2 should not be deliverable yet")
	}
}

func TestContentHashDeterministic(t *testing.T) {
	content := TribalContent{Knowledge: "x", Severity: "low"}
	h1, err := ComputeContentHash(content)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := ComputeContentHash(content)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %s != %s", h1, h2)
	}

	other := TribalContent{Knowledge: "y", Severity: "low"}
	h3, _ := ComputeContentHash(other)
	if h1 == h3 {
		t.Fatal("different content must not collide")
	}
}

func TestMemoryIdentityVsContentEquality(t *testing.T) {
	m1 := &Memory{ID: "a", Summary: "s", ContentHash: "h"}
	m2 := &Memory{ID: "a", Summary: "different", ContentHash: "h2"}
	m3 := &Memory{ID: "b", Summary: "s", ContentHash: "h"}

	if !m1.Equal(m2) {
		t.Error("same id must be Equal regardless of content")
	}
	if m1.ContentEqual(m2) {
		t.Error("differing content must not be ContentEqual")
	}
	if m1.Equal(m3) {
		t.Error("different id must not be Equal")
	}
}
