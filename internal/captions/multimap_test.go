package captions

import (
	"reflect"
	"testing"
)

func TestOrderedMultiMap(t *testing.T) {
	m := NewOrderedMultiMap[string, int]()
	m.Add("b", 1)
	m.Add("a", 2)
	m.Add("b", 3)

	if m.Len() != 2 {
		t.Fatalf("Expected 2 keys, got %d", m.Len())
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want [b a]", got)
	}
	if got := m.Get("b"); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Get(b) = %v, want [1 3]", got)
	}
	if got := m.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}

	var order []string
	m.Each(func(key string, values []int) {
		order = append(order, key)
	})
	if !reflect.DeepEqual(order, []string{"b", "a"}) {
		t.Errorf("Each order = %v, want [b a]", order)
	}
}

func TestOrderedMultiMap_KeysIsACopy(t *testing.T) {
	m := NewOrderedMultiMap[string, int]()
	m.Add("a", 1)
	keys := m.Keys()
	keys[0] = "mutated"
	if m.Keys()[0] != "a" {
		t.Error("Mutating Keys() result changed the map")
	}
}
