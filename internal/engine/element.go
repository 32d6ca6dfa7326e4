package engine

import "fmt"

// Option 选项（下拉、单选等选择类字段使用）
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DataBinding 数据绑定，将字段的选项/行数据委托给外部数据源
type DataBinding struct {
	SourceID     string `json:"source_id"`
	DisplayField string `json:"display_field,omitempty"`
	ValueField   string `json:"value_field,omitempty"`
}

// ValidationRules 字段校验规则
// 指针字段区分"未配置"与"配置为零值"
type ValidationRules struct {
	MinLength    *int     `json:"min_length,omitempty"`
	MaxLength    *int     `json:"max_length,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// Column 列容器的单列
type Column struct {
	Width    int           `json:"width,omitempty"`
	Elements []FormElement `json:"elements,omitempty"`
}

// Tab 选项卡
type Tab struct {
	ID       string        `json:"id,omitempty"`
	Title    string        `json:"title"`
	Elements []FormElement `json:"elements,omitempty"`
}

// AccordionItem 折叠面板项
type AccordionItem struct {
	ID       string        `json:"id,omitempty"`
	Title    string        `json:"title"`
	Elements []FormElement `json:"elements,omitempty"`
}

// FormElement 表单元素，表单布局树的节点
// 容器类型通过 Elements/Columns/Tabs/Items 之一嵌套子元素（由 Type 决定），叶子字段无子元素
// 树是严格树：节点不共享、不成环，Replace 通过重建祖先保证所有权
type FormElement struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Name        string    `json:"name,omitempty"` // 提交数据的键，叶子字段在表单内唯一，容器无 name
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"help_text,omitempty"`
	Required    bool      `json:"required,omitempty"`

	Validation  *ValidationRules `json:"validation,omitempty"`
	Options     []Option         `json:"options,omitempty"`
	DataSource  *DataBinding     `json:"data_source,omitempty"`
	VisibleWhen *Condition       `json:"visible_when,omitempty"`

	// 容器子元素，按 Type 只会填充其中之一
	Elements []FormElement   `json:"elements,omitempty"`
	Columns  []Column        `json:"columns,omitempty"`
	Tabs     []Tab           `json:"tabs,omitempty"`
	Items    []AccordionItem `json:"items,omitempty"`

	// 仅 Type == button 时有效
	ButtonAction *ButtonAction `json:"button_action,omitempty"`
}

// children 返回元素的全部直接子元素分组（按文档顺序）
func (e *FormElement) children() [][]FormElement {
	var groups [][]FormElement
	if len(e.Elements) > 0 {
		groups = append(groups, e.Elements)
	}
	for i := range e.Columns {
		if len(e.Columns[i].Elements) > 0 {
			groups = append(groups, e.Columns[i].Elements)
		}
	}
	for i := range e.Tabs {
		if len(e.Tabs[i].Elements) > 0 {
			groups = append(groups, e.Tabs[i].Elements)
		}
	}
	for i := range e.Items {
		if len(e.Items[i].Elements) > 0 {
			groups = append(groups, e.Items[i].Elements)
		}
	}
	return groups
}

// FindByID 深度优先查找指定 id 的元素，未找到返回 nil
func FindByID(tree []FormElement, id string) *FormElement {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
		for _, group := range tree[i].children() {
			if found := FindByID(group, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Replace 返回将 id 对应节点替换为 newElement 的新树
// 命中路径上的所有祖先都会重建，原树不被修改；未找到时返回原结构的拷贝和 false
func Replace(tree []FormElement, id string, newElement FormElement) ([]FormElement, bool) {
	out := make([]FormElement, len(tree))
	replaced := false
	for i := range tree {
		if tree[i].ID == id {
			out[i] = newElement
			replaced = true
			continue
		}

		el := tree[i]
		if len(el.Elements) > 0 {
			sub, ok := Replace(el.Elements, id, newElement)
			el.Elements = sub
			replaced = replaced || ok
		}
		if len(el.Columns) > 0 {
			cols := make([]Column, len(el.Columns))
			copy(cols, el.Columns)
			for c := range cols {
				sub, ok := Replace(cols[c].Elements, id, newElement)
				cols[c].Elements = sub
				replaced = replaced || ok
			}
			el.Columns = cols
		}
		if len(el.Tabs) > 0 {
			tabs := make([]Tab, len(el.Tabs))
			copy(tabs, el.Tabs)
			for t := range tabs {
				sub, ok := Replace(tabs[t].Elements, id, newElement)
				tabs[t].Elements = sub
				replaced = replaced || ok
			}
			el.Tabs = tabs
		}
		if len(el.Items) > 0 {
			items := make([]AccordionItem, len(el.Items))
			copy(items, el.Items)
			for it := range items {
				sub, ok := Replace(items[it].Elements, id, newElement)
				items[it].Elements = sub
				replaced = replaced || ok
			}
			el.Items = items
		}
		out[i] = el
	}
	return out, replaced
}

// ValidateTree 校验元素树的结构约束：
// 所有节点（含容器）必须有非空且树内唯一的 id；
// 非容器节点的非空 name 在树内必须唯一，否则提交数据会在同一个键下互相覆盖
func ValidateTree(tree []FormElement) error {
	ids := make(map[string]bool)
	names := make(map[string]bool)
	return validateTree(tree, ids, names)
}

func validateTree(tree []FormElement, ids, names map[string]bool) error {
	for i := range tree {
		el := &tree[i]
		if el.ID == "" {
			return fmt.Errorf("element missing id")
		}
		if ids[el.ID] {
			return fmt.Errorf("duplicate element id %s", el.ID)
		}
		ids[el.ID] = true

		if IsContainer(el.Type) {
			for _, group := range el.children() {
				if err := validateTree(group, ids, names); err != nil {
					return err
				}
			}
			continue
		}
		if el.Name != "" {
			if names[el.Name] {
				return fmt.Errorf("duplicate field name %s", el.Name)
			}
			names[el.Name] = true
		}
	}
	return nil
}

// FlattenLeaves 按深度优先文档顺序返回所有非容器元素
func FlattenLeaves(tree []FormElement) []FormElement {
	var leaves []FormElement
	for i := range tree {
		if IsContainer(tree[i].Type) {
			for _, group := range tree[i].children() {
				leaves = append(leaves, FlattenLeaves(group)...)
			}
			continue
		}
		leaves = append(leaves, tree[i])
	}
	return leaves
}
