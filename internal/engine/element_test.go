package engine

import (
	"encoding/json"
	"reflect"
	"testing"
)

// buildDeepTree 构造 section→columns→section 三层嵌套的测试树
func buildDeepTree() []FormElement {
	return []FormElement{
		{
			ID:    "sec-1",
			Type:  FieldTypeSection,
			Label: "基本信息",
			Elements: []FormElement{
				{ID: "f-name", Type: FieldTypeText, Name: "name", Label: "姓名", Required: true},
				{
					ID:   "cols-1",
					Type: FieldTypeColumns,
					Columns: []Column{
						{
							Width: 6,
							Elements: []FormElement{
								{
									ID:   "sec-2",
									Type: FieldTypeSection,
									Elements: []FormElement{
										{ID: "f-dept", Type: FieldTypeDropdown, Name: "dept", Options: []Option{{Label: "HR", Value: "hr"}}},
									},
								},
							},
						},
						{
							Width:    6,
							Elements: []FormElement{{ID: "f-age", Type: FieldTypeNumber, Name: "age"}},
						},
					},
				},
			},
		},
		{
			ID:   "tabs-1",
			Type: FieldTypeTabs,
			Tabs: []Tab{
				{ID: "t1", Title: "附加", Elements: []FormElement{{ID: "f-note", Type: FieldTypeTextarea, Name: "note"}}},
			},
		},
		{ID: "btn-submit", Type: FieldTypeButton, Label: "提交", ButtonAction: &ButtonAction{Type: ActionSubmitForm}},
	}
}

// TestFindByID 测试深度优先查找
func TestFindByID(t *testing.T) {
	tree := buildDeepTree()

	tests := []struct {
		name  string
		id    string
		found bool
	}{
		{"顶层元素", "sec-1", true},
		{"一级子元素", "f-name", true},
		{"列容器内的嵌套section", "sec-2", true},
		{"三层嵌套的叶子", "f-dept", true},
		{"选项卡内的元素", "f-note", true},
		{"按钮", "btn-submit", true},
		{"不存在的id", "missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := FindByID(tree, tt.id)
			if (el != nil) != tt.found {
				t.Errorf("FindByID(%q) found = %v, expected %v", tt.id, el != nil, tt.found)
			}
			if el != nil && el.ID != tt.id {
				t.Errorf("FindByID(%q) returned element with id %q", tt.id, el.ID)
			}
		})
	}
}

// TestReplace 测试替换节点时重建祖先且不修改原树
func TestReplace(t *testing.T) {
	tree := buildDeepTree()
	original, _ := json.Marshal(tree)

	replacement := FormElement{ID: "f-dept", Type: FieldTypeText, Name: "dept", Label: "部门"}
	newTree, replaced := Replace(tree, "f-dept", replacement)
	if !replaced {
		t.Fatal("Replace did not find target element")
	}

	// 新树中节点已替换
	el := FindByID(newTree, "f-dept")
	if el == nil || el.Type != FieldTypeText || el.Label != "部门" {
		t.Errorf("replaced element = %+v, expected text field labelled 部门", el)
	}

	// 原树不受影响
	after, _ := json.Marshal(tree)
	if string(original) != string(after) {
		t.Error("Replace mutated the original tree")
	}
	if orig := FindByID(tree, "f-dept"); orig == nil || orig.Type != FieldTypeDropdown {
		t.Error("original tree lost the dropdown element")
	}

	// 未命中时返回 false
	if _, ok := Replace(tree, "missing", replacement); ok {
		t.Error("Replace reported success for a missing id")
	}
}

// TestFlattenLeaves 测试叶子展开的顺序与容器排除
func TestFlattenLeaves(t *testing.T) {
	tree := buildDeepTree()
	leaves := FlattenLeaves(tree)

	var ids []string
	for _, leaf := range leaves {
		if IsContainer(leaf.Type) {
			t.Errorf("FlattenLeaves yielded container element %s (%s)", leaf.ID, leaf.Type)
		}
		ids = append(ids, leaf.ID)
	}

	// 深度优先文档顺序
	expected := []string{"f-name", "f-dept", "f-age", "f-note", "btn-submit"}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("FlattenLeaves order = %v, expected %v", ids, expected)
	}
}

// TestValidateTree 测试ID与name唯一性约束覆盖容器与叶子
func TestValidateTree(t *testing.T) {
	tests := []struct {
		name    string
		tree    []FormElement
		wantErr bool
	}{
		{
			name: "合法的嵌套树",
			tree: buildDeepTree(),
		},
		{
			name: "缺少ID",
			tree: []FormElement{
				{Type: FieldTypeText, Name: "a"},
			},
			wantErr: true,
		},
		{
			name: "叶子ID重复",
			tree: []FormElement{
				{ID: "f-1", Type: FieldTypeText, Name: "a"},
				{ID: "f-1", Type: FieldTypeText, Name: "b"},
			},
			wantErr: true,
		},
		{
			name: "容器ID重复",
			tree: []FormElement{
				{ID: "sec-1", Type: FieldTypeSection, Elements: []FormElement{
					{ID: "f-1", Type: FieldTypeText, Name: "a"},
				}},
				{ID: "sec-1", Type: FieldTypeSection, Elements: []FormElement{
					{ID: "f-2", Type: FieldTypeText, Name: "b"},
				}},
			},
			wantErr: true,
		},
		{
			name: "容器与叶子ID重复",
			tree: []FormElement{
				{ID: "x-1", Type: FieldTypeSection, Elements: []FormElement{
					{ID: "x-1", Type: FieldTypeText, Name: "a"},
				}},
			},
			wantErr: true,
		},
		{
			name: "跨容器的叶子name重复",
			tree: []FormElement{
				{ID: "sec-1", Type: FieldTypeSection, Elements: []FormElement{
					{ID: "f-1", Type: FieldTypeText, Name: "email"},
				}},
				{ID: "sec-2", Type: FieldTypeSection, Elements: []FormElement{
					{ID: "f-2", Type: FieldTypeText, Name: "email"},
				}},
			},
			wantErr: true,
		},
		{
			name: "空name的叶子不互相冲突",
			tree: []FormElement{
				{ID: "btn-1", Type: FieldTypeButton, ButtonAction: &ButtonAction{Type: ActionSubmitForm}},
				{ID: "btn-2", Type: FieldTypeButton, ButtonAction: &ButtonAction{Type: ActionSubmitForm}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTree(tt.tree)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTree() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestElementTreeRoundTrip 测试元素树序列化往返的结构一致性
func TestElementTreeRoundTrip(t *testing.T) {
	tree := buildDeepTree()
	// 补充校验规则和数据绑定，覆盖全部可序列化字段
	minLen := 2
	maxVal := 100.0
	tree[0].Elements[0].Validation = &ValidationRules{MinLength: &minLen, Pattern: `\w+`, Max: &maxVal, ErrorMessage: "bad"}
	tree[0].Elements[1].Columns[1].Elements[0].DataSource = &DataBinding{SourceID: "ds-1", DisplayField: "dept", ValueField: "deptId"}
	tree[0].Elements[0].VisibleWhen = &Condition{Field: "mode", Operator: OpEqual, Value: "full"}

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed []FormElement
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	again, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round-trip changed the tree:\n  before: %s\n  after:  %s", data, again)
	}
}
