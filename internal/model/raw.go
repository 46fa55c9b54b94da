package model

import "PolyFluid/internal/utils/jsonx"

// RawEvent Gamma /events 返回的事件，字段类型不可信，只通过 jsonx 读取
type RawEvent = jsonx.Object

// RawMarket Gamma 事件内嵌或 /markets/{id} 返回的子市场
type RawMarket = jsonx.Object

// EventFromMarket 把单个子市场包装成只含一个市场的事件，复用同一套归一化流程
func EventFromMarket(m RawMarket) RawEvent {
	ev := RawEvent{
		"id":       m["id"],
		"title":    m["question"],
		"slug":     m["slug"],
		"category": m["category"],
		"image":    m["image"],
		"closed":   m["closed"],
		"archived": m["archived"],
		"endDate":  m["endDate"],
		"markets":  []interface{}{map[string]interface{}(m)},
	}
	for _, k := range []string{"volume", "volume24hr", "liquidity", "tags"} {
		if v, ok := m[k]; ok {
			ev[k] = v
		}
	}
	return ev
}
