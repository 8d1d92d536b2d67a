package entity

import (
	"reflect"
	"testing"
)

func TestProcessedIDSet_HasAndAdd(t *testing.T) {
	set := NewProcessedIDSet("a")

	if !set.Has("a") {
		t.Error("expected 'a' to be present")
	}
	if set.Has("b") {
		t.Error("expected 'b' to be absent")
	}

	set.Add("b")
	set.Add("b")

	if !set.Has("b") {
		t.Error("expected 'b' to be present after Add")
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 ids, got %d", set.Len())
	}
}

func TestProcessedIDSet_Sorted(t *testing.T) {
	set := NewProcessedIDSet("c", "a", "b", "a")

	got := set.Sorted()
	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestProcessedIDSet_SortedEmptyIsNotNil(t *testing.T) {
	set := NewProcessedIDSet()

	got := set.Sorted()
	if got == nil {
		t.Fatal("expected non-nil slice for empty set")
	}
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestProcessedIDSet_CloneIsIndependent(t *testing.T) {
	set := NewProcessedIDSet("a")
	clone := set.Clone()
	clone.Add("b")

	if set.Has("b") {
		t.Error("mutating the clone must not change the original")
	}
	if !clone.Has("a") {
		t.Error("clone must keep the original ids")
	}
}
