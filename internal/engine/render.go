package engine

import (
	"context"
)

// RenderIssue 渲染期收集的非致命问题（典型为数据源失败）
type RenderIssue struct {
	ElementID string `json:"element_id"`
	Message   string `json:"message"`
}

// RenderForm 生成表单的渲染投影：
//   - 按 formData 快照求值可见性条件，不可见的元素被剔除
//   - 数据绑定字段的选项已替换为解析结果
//
// 数据源失败转为 RenderIssue 返回（选项为空列表），不会中断渲染
func RenderForm(ctx context.Context, provider DataProvider, tree []FormElement, formData map[string]interface{}) ([]FormElement, []RenderIssue) {
	var issues []RenderIssue
	rendered := renderElements(ctx, provider, tree, formData, &issues)
	return rendered, issues
}

func renderElements(ctx context.Context, provider DataProvider, elements []FormElement, formData map[string]interface{}, issues *[]RenderIssue) []FormElement {
	out := make([]FormElement, 0, len(elements))
	for i := range elements {
		el := elements[i]

		if el.VisibleWhen != nil {
			visible, err := el.VisibleWhen.Evaluate(formData)
			if err != nil {
				// 条件求值失败按不可见处理（fail-closed），并上报
				*issues = append(*issues, RenderIssue{ElementID: el.ID, Message: err.Error()})
				continue
			}
			if !visible {
				continue
			}
		}

		// 解析数据绑定的选项
		if el.DataSource != nil && provider != nil && !IsContainer(el.Type) {
			options, err := ResolveOptions(ctx, provider, el.DataSource)
			if err != nil {
				*issues = append(*issues, RenderIssue{ElementID: el.ID, Message: err.Error()})
			}
			el.Options = options
		}

		// 递归处理容器子元素
		if len(el.Elements) > 0 {
			el.Elements = renderElements(ctx, provider, el.Elements, formData, issues)
		}
		if len(el.Columns) > 0 {
			cols := make([]Column, len(el.Columns))
			copy(cols, el.Columns)
			for c := range cols {
				cols[c].Elements = renderElements(ctx, provider, cols[c].Elements, formData, issues)
			}
			el.Columns = cols
		}
		if len(el.Tabs) > 0 {
			tabs := make([]Tab, len(el.Tabs))
			copy(tabs, el.Tabs)
			for t := range tabs {
				tabs[t].Elements = renderElements(ctx, provider, tabs[t].Elements, formData, issues)
			}
			el.Tabs = tabs
		}
		if len(el.Items) > 0 {
			items := make([]AccordionItem, len(el.Items))
			copy(items, el.Items)
			for it := range items {
				items[it].Elements = renderElements(ctx, provider, items[it].Elements, formData, issues)
			}
			el.Items = items
		}

		out = append(out, el)
	}
	return out
}
