package valid

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// ToFloat 把任意数值类型转为 float64，bool 和字符串不算数值
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// IsIntegral 判断 v 是否为整数值
func IsIntegral(v any) bool {
	f, ok := ToFloat(v)
	return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// 按边界类型生成数值：整数边界产生 int64，否则 float64
func typedNumber(f float64, integral bool) any {
	if integral {
		return int64(f)
	}
	return f
}
