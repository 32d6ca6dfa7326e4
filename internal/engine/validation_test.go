package engine

import (
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// TestValidateFieldRequired 测试必填与空可选字段
func TestValidateFieldRequired(t *testing.T) {
	tests := []struct {
		name      string
		element   FormElement
		value     interface{}
		wantError bool
	}{
		{"必填字段为nil", FormElement{Name: "f", Required: true}, nil, true},
		{"必填字段为空串", FormElement{Name: "f", Required: true}, "", true},
		{"必填字段为纯空格", FormElement{Name: "f", Required: true}, "   ", true},
		{"必填字段有值", FormElement{Name: "f", Required: true}, "hello", false},
		{"必填字段为false", FormElement{Name: "f", Required: true}, false, false},
		{"必填字段为0", FormElement{Name: "f", Required: true}, 0.0, false},
		{"可选字段为空时跳过所有规则", FormElement{
			Name:       "f",
			Validation: &ValidationRules{MinLength: intPtr(5), Pattern: `^\d+$`, Min: floatPtr(10)},
		}, "", false},
		{"可选字段为nil时跳过所有规则", FormElement{
			Name:       "f",
			Validation: &ValidationRules{MinLength: intPtr(5)},
		}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateField(&tt.element, tt.value)
			if (msg != "") != tt.wantError {
				t.Errorf("ValidateField() = %q, wantError %v", msg, tt.wantError)
			}
		})
	}
}

// TestValidateFieldString 测试字符串规则的优先级与短路
func TestValidateFieldString(t *testing.T) {
	element := FormElement{
		Name:       "code",
		Validation: &ValidationRules{MinLength: intPtr(3), MaxLength: intPtr(5)},
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"低于最小长度", "ab", true},
		{"长度合法", "abcd", false},
		{"超过最大长度", "abcdef", true},
		{"恰好最小长度", "abc", false},
		{"恰好最大长度", "abcde", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateField(&element, tt.value)
			if (msg != "") != tt.wantError {
				t.Errorf("ValidateField(%q) = %q, wantError %v", tt.value, msg, tt.wantError)
			}
		})
	}
}

// TestValidateFieldPattern 测试正则全串匹配
func TestValidateFieldPattern(t *testing.T) {
	element := FormElement{
		Name:       "email",
		Validation: &ValidationRules{Pattern: `[a-z]+@[a-z]+\.[a-z]+`},
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"匹配", "user@example.com", false},
		{"子串匹配但全串不匹配", "see user@example.com here", true},
		{"完全不匹配", "not-an-email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateField(&element, tt.value)
			if (msg != "") != tt.wantError {
				t.Errorf("ValidateField(%q) = %q, wantError %v", tt.value, msg, tt.wantError)
			}
		})
	}

	t.Run("非法正则按配置缺陷拦截", func(t *testing.T) {
		bad := FormElement{Name: "f", Validation: &ValidationRules{Pattern: `([`}}
		if msg := ValidateField(&bad, "value"); msg == "" {
			t.Error("invalid pattern passed validation")
		}
	})
}

// TestValidateFieldNumeric 测试数值规则
func TestValidateFieldNumeric(t *testing.T) {
	element := FormElement{
		Name:       "qty",
		Validation: &ValidationRules{Min: floatPtr(0), Max: floatPtr(10)},
	}

	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"超过上限", 15.0, true},
		{"范围内", 5.0, false},
		{"低于下限", -1.0, true},
		{"字符串形式的数字", "15", true},
		{"字符串形式的合法数字", "5", false},
		{"非数字字符串不做数值检查", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateField(&element, tt.value)
			if (msg != "") != tt.wantError {
				t.Errorf("ValidateField(%v) = %q, wantError %v", tt.value, msg, tt.wantError)
			}
		})
	}
}

// TestValidateFieldCustomMessage 测试自定义错误消息优先
func TestValidateFieldCustomMessage(t *testing.T) {
	element := FormElement{
		Name:     "f",
		Required: true,
		Validation: &ValidationRules{
			MinLength:    intPtr(3),
			ErrorMessage: "请按要求填写",
		},
	}

	if msg := ValidateField(&element, nil); msg != "请按要求填写" {
		t.Errorf("required error = %q, expected custom message", msg)
	}
	if msg := ValidateField(&element, "ab"); msg != "请按要求填写" {
		t.Errorf("min length error = %q, expected custom message", msg)
	}
}

// TestValidateForm 测试整表校验
func TestValidateForm(t *testing.T) {
	tree := []FormElement{
		{
			ID:   "sec",
			Type: FieldTypeSection,
			Elements: []FormElement{
				{ID: "f1", Type: FieldTypeText, Name: "name", Required: true},
				{ID: "f2", Type: FieldTypeNumber, Name: "age", Validation: &ValidationRules{Min: floatPtr(18)}},
				{ID: "f3", Type: FieldTypeText, Name: "extra",
					Required:    true,
					VisibleWhen: &Condition{Field: "mode", Operator: OpEqual, Value: "full"}},
				{ID: "btn", Type: FieldTypeButton, ButtonAction: &ButtonAction{Type: ActionSubmitForm}},
			},
		},
	}

	t.Run("收集所有字段错误", func(t *testing.T) {
		errs := ValidateForm(tree, map[string]interface{}{"age": 12.0})
		if len(errs) != 2 {
			t.Fatalf("error map = %v, expected 2 entries", errs)
		}
		if _, ok := errs["name"]; !ok {
			t.Error("missing required error for name")
		}
		if _, ok := errs["age"]; !ok {
			t.Error("missing min error for age")
		}
	})

	t.Run("不可见字段不校验", func(t *testing.T) {
		errs := ValidateForm(tree, map[string]interface{}{"name": "张三", "age": 20.0})
		if _, ok := errs["extra"]; ok {
			t.Error("hidden field extra was validated")
		}
		if len(errs) != 0 {
			t.Errorf("error map = %v, expected empty", errs)
		}
	})

	t.Run("可见性条件命中后参与校验", func(t *testing.T) {
		errs := ValidateForm(tree, map[string]interface{}{"name": "张三", "age": 20.0, "mode": "full"})
		if _, ok := errs["extra"]; !ok {
			t.Error("visible required field extra was not validated")
		}
	})

	t.Run("相同输入结果确定", func(t *testing.T) {
		data := map[string]interface{}{"age": 10.0}
		first := ValidateForm(tree, data)
		for i := 0; i < 10; i++ {
			again := ValidateForm(tree, data)
			if len(again) != len(first) {
				t.Fatalf("non-deterministic result: %v vs %v", first, again)
			}
			for k, v := range first {
				if again[k] != v {
					t.Fatalf("non-deterministic message for %s: %q vs %q", k, v, again[k])
				}
			}
		}
	})
}
