// Package jsonx 上游松散 JSON 的防御式读取。
// Gamma 接口里同一字段可能是数组、JSON 字符串或逗号拼接字符串，数值可能是数字或字符串，
// 这里统一兜底：解析失败一律视为“缺失”，不返回错误。
package jsonx

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Object 松散 JSON 对象
type Object = map[string]interface{}

// Decode 以 UseNumber 方式解码，避免超长 token id 被转成 float64 丢精度
func Decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// StringList 解析伪 JSON 数组字段，兼容 []interface{}、"[\"a\",\"b\"]"、"a,b"
func StringList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(val)
		if s == "" || s == "null" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var parsed []interface{}
			if err := Decode([]byte(s), &parsed); err != nil {
				return nil
			}
			return StringList(parsed)
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if c := strings.TrimSpace(strings.Trim(strings.TrimSpace(p), `"'`)); c != "" {
				out = append(out, c)
			}
		}
		return out
	default:
		if s := scalarString(val); s != "" {
			return []string{s}
		}
		return nil
	}
}

func scalarString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// String 读取字符串字段，数字会被格式化，其他类型返回空串
func String(obj Object, key string) string {
	if obj == nil {
		return ""
	}
	return scalarString(obj[key])
}

// FirstString 依次读取多个候选字段，返回第一个非空值
func FirstString(obj Object, keys ...string) string {
	for _, k := range keys {
		if s := String(obj, k); s != "" {
			return s
		}
	}
	return ""
}

// Float 读取数值字段，兼容数字与数字字符串
func Float(obj Object, key string) (float64, bool) {
	if obj == nil {
		return 0, false
	}
	return ToFloat(obj[key])
}

// ToFloat 标量转 float64
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// Bool 读取布尔字段，缺失或类型不符时返回 def
func Bool(obj Object, key string, def bool) bool {
	if obj == nil {
		return def
	}
	switch val := obj[key].(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Objects 读取对象数组字段，非对象元素被忽略
func Objects(obj Object, key string) []Object {
	if obj == nil {
		return nil
	}
	list, ok := obj[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// Number 兼容 "0.48" 与 0.48 两种写法的数值；非法值解析为 0，由调用方按无效数据丢弃
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}
