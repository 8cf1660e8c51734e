package domain

import "testing"

func TestComputeStockDeltas_ProductInBothSets(t *testing.T) {
	oldItems := []LineItem{{ProductID: "a", Quantity: 2}}
	newItems := []LineItem{{ProductID: "a", Quantity: 5}}

	deltas := ComputeStockDeltas(oldItems, newItems)
	if deltas["a"] != 3 {
		t.Errorf("Expected delta 3 for product a, got %d", deltas["a"])
	}
}

func TestComputeStockDeltas_ProductOnlyInNewSet(t *testing.T) {
	newItems := []LineItem{{ProductID: "b", Quantity: 4}}

	deltas := ComputeStockDeltas(nil, newItems)
	if deltas["b"] != 4 {
		t.Errorf("Expected delta 4 for product b, got %d", deltas["b"])
	}
}

func TestComputeStockDeltas_ProductOnlyInOldSet(t *testing.T) {
	oldItems := []LineItem{{ProductID: "c", Quantity: 7}}

	deltas := ComputeStockDeltas(oldItems, nil)
	if deltas["c"] != -7 {
		t.Errorf("Expected delta -7 for product c, got %d", deltas["c"])
	}
}

func TestComputeStockDeltas_UnchangedQuantityIsDropped(t *testing.T) {
	oldItems := []LineItem{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 1}}
	newItems := []LineItem{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 3}}

	deltas := ComputeStockDeltas(oldItems, newItems)
	if _, ok := deltas["a"]; ok {
		t.Error("Product with unchanged quantity should not appear in deltas")
	}
	if deltas["b"] != 2 {
		t.Errorf("Expected delta 2 for product b, got %d", deltas["b"])
	}
}

func TestTotalOf(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: 10, TotalPrice: 30},
		{Quantity: 2, UnitPrice: 5.5, TotalPrice: 11},
	}
	if got := TotalOf(items); got != 41 {
		t.Errorf("Expected total 41, got %v", got)
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("Expected %s to be valid", s)
		}
	}
	if Status("SHIPPED").IsValid() {
		t.Error("Unknown status should not be valid")
	}
}
