package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// 规则与可见性条件使用封闭的声明式结构而不是自由文本表达式：
// 叶子是 field/operator/value 比较，组合子为 all/any/not。
// 求值只读 formData 快照，任何求值错误由调用方按失败处理（fail-closed）。

// 条件操作符
const (
	OpEqual     = "eq"
	OpNotEqual  = "neq"
	OpGreater   = "gt"
	OpGreaterEq = "gte"
	OpLess      = "lt"
	OpLessEq    = "lte"
	OpContains  = "contains"
	OpEmpty     = "empty"
	OpNotEmpty  = "not_empty"
)

// Condition 单个字段比较条件
type Condition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

// Evaluate 对 formData 快照求值
func (c *Condition) Evaluate(data map[string]interface{}) (bool, error) {
	actual := data[c.Field]

	switch c.Operator {
	case OpEmpty:
		return isEmptyValue(actual), nil
	case OpNotEmpty:
		return !isEmptyValue(actual), nil
	case OpEqual:
		return valuesEqual(actual, c.Value), nil
	case OpNotEqual:
		return !valuesEqual(actual, c.Value), nil
	case OpGreater, OpGreaterEq, OpLess, OpLessEq:
		a, aok := toNumber(actual)
		b, bok := toNumber(c.Value)
		if !aok || !bok {
			return false, fmt.Errorf("operator %s requires numeric operands (field %s)", c.Operator, c.Field)
		}
		switch c.Operator {
		case OpGreater:
			return a > b, nil
		case OpGreaterEq:
			return a >= b, nil
		case OpLess:
			return a < b, nil
		default:
			return a <= b, nil
		}
	case OpContains:
		return strings.Contains(
			strings.ToLower(toString(actual)),
			strings.ToLower(toString(c.Value)),
		), nil
	default:
		return false, fmt.Errorf("unknown operator: %s", c.Operator)
	}
}

// Rule 布尔规则树
// All/Any/Not/Cond 只应填充其中之一；空规则恒为真
type Rule struct {
	All  []Rule     `json:"all,omitempty"`
	Any  []Rule     `json:"any,omitempty"`
	Not  *Rule      `json:"not,omitempty"`
	Cond *Condition `json:"cond,omitempty"`
}

// Evaluate 对 formData 快照求值
func (r *Rule) Evaluate(data map[string]interface{}) (bool, error) {
	switch {
	case r == nil:
		return true, nil
	case len(r.All) > 0:
		for i := range r.All {
			ok, err := r.All[i].Evaluate(data)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case len(r.Any) > 0:
		for i := range r.Any {
			ok, err := r.Any[i].Evaluate(data)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case r.Not != nil:
		ok, err := r.Not.Evaluate(data)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case r.Cond != nil:
		return r.Cond.Evaluate(data)
	default:
		return true, nil
	}
}

// isEmptyValue 判断提交值是否为空（nil、空串、空切片、空映射）
func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		return false
	}
}

// valuesEqual 先按数值比较（1 == "1" == 1.0），否则按字符串比较
func valuesEqual(a, b interface{}) bool {
	if an, aok := toNumber(a); aok {
		if bn, bok := toNumber(b); bok {
			return an == bn
		}
	}
	return toString(a) == toString(b)
}

// toNumber 尝试把值转成float64（数字或可解析为数字的字符串）
func toNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// toString 把值转成字符串表示（整数值的浮点数不带小数点）
func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
