// internal/service/reservation/domain/stock.go
package domain

// ComputeStockDeltas 计算明细替换产生的净库存需求。
// 返回值按商品聚合：正数表示相对旧明细需要额外占用的库存，
// 负数表示会净归还的库存（只出现在旧明细里的商品即为 -旧数量）。
func ComputeStockDeltas(oldItems, newItems []LineItem) map[string]int {
	deltas := make(map[string]int, len(oldItems)+len(newItems))
	for _, item := range oldItems {
		deltas[item.ProductID] -= item.Quantity
	}
	for _, item := range newItems {
		deltas[item.ProductID] += item.Quantity
	}
	// 净变化为零的商品不需要任何库存操作
	for id, d := range deltas {
		if d == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}

// TotalOf 计算一组明细的合计金额，预订单的 Total 永远由它推导。
func TotalOf(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}
