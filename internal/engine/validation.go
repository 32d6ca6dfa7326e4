package engine

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// ValidateField 校验单个字段值，返回错误消息，通过校验返回空串
// 校验按固定优先级执行：
//  1. required 且值为空 → 必填错误
//  2. 值为空且非必填 → 直接通过，不再执行后续检查
//  3. 字符串值：min_length → max_length → pattern，命中即止
//  4. 数值或可转数值：min → max
func ValidateField(el *FormElement, value interface{}) string {
	if el.Required && isEmptyValue(value) {
		if el.Validation != nil && el.Validation.ErrorMessage != "" {
			return el.Validation.ErrorMessage
		}
		return fmt.Sprintf("%s is required", fieldLabel(el))
	}

	// 空的可选字段始终通过
	if isEmptyValue(value) {
		return ""
	}

	rules := el.Validation
	if rules == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		if msg := validateString(rules, s, el); msg != "" {
			return msg
		}
	}

	if n, ok := toNumber(value); ok {
		if msg := validateNumber(rules, n, el); msg != "" {
			return msg
		}
	}

	return ""
}

// validateString 字符串规则，首个失败的检查胜出
func validateString(rules *ValidationRules, s string, el *FormElement) string {
	length := utf8.RuneCountInString(s)

	if rules.MinLength != nil && length < *rules.MinLength {
		return ruleMessage(rules, fmt.Sprintf("%s must be at least %d characters", fieldLabel(el), *rules.MinLength))
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return ruleMessage(rules, fmt.Sprintf("%s must be at most %d characters", fieldLabel(el), *rules.MaxLength))
	}
	if rules.Pattern != "" {
		// 全串匹配
		re, err := regexp.Compile("^(?:" + rules.Pattern + ")$")
		if err != nil {
			// 无法编译的模式按配置缺陷对待，拦截提交
			return fmt.Sprintf("%s has an invalid validation pattern", fieldLabel(el))
		}
		if !re.MatchString(s) {
			return ruleMessage(rules, fmt.Sprintf("%s has an invalid format", fieldLabel(el)))
		}
	}
	return ""
}

// validateNumber 数值规则
func validateNumber(rules *ValidationRules, n float64, el *FormElement) string {
	if rules.Min != nil && n < *rules.Min {
		return ruleMessage(rules, fmt.Sprintf("%s must be at least %v", fieldLabel(el), *rules.Min))
	}
	if rules.Max != nil && n > *rules.Max {
		return ruleMessage(rules, fmt.Sprintf("%s must be at most %v", fieldLabel(el), *rules.Max))
	}
	return ""
}

func ruleMessage(rules *ValidationRules, fallback string) string {
	if rules.ErrorMessage != "" {
		return rules.ErrorMessage
	}
	return fallback
}

func fieldLabel(el *FormElement) string {
	if el.Label != "" {
		return el.Label
	}
	if el.Name != "" {
		return el.Name
	}
	return "field"
}

// ValidateForm 校验整棵元素树，返回 name→错误消息 映射
// 只校验带 name 的叶子字段（跳过按钮和容器）；可见性条件为假的字段不参与校验
// 错误映射为空即表单有效；同样的 (tree, formData) 输入总是产生同样的结果
func ValidateForm(tree []FormElement, formData map[string]interface{}) map[string]string {
	errors := make(map[string]string)
	for _, leaf := range FlattenLeaves(tree) {
		if leaf.Name == "" || leaf.Type == FieldTypeButton {
			continue
		}
		if leaf.VisibleWhen != nil {
			visible, err := leaf.VisibleWhen.Evaluate(formData)
			if err != nil || !visible {
				// 不可见（或条件无法求值）的字段不校验
				continue
			}
		}
		el := leaf
		if msg := ValidateField(&el, formData[leaf.Name]); msg != "" {
			errors[leaf.Name] = msg
		}
	}
	return errors
}
