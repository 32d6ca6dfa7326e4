package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeProvider 测试用数据源
type fakeProvider struct {
	rows      map[string][]Row
	fetchErr  error
	updateErr error
	updates   []string
}

func (p *fakeProvider) Fetch(ctx context.Context, sourceID string) ([]Row, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.rows[sourceID], nil
}

func (p *fakeProvider) Update(ctx context.Context, sourceID string, rowIndex int, patch map[string]interface{}) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	p.updates = append(p.updates, sourceID)
	return nil
}

// TestResolveOptionsPaired 测试双字段投影：按值去重、保留首次出现、不排序
func TestResolveOptionsPaired(t *testing.T) {
	provider := &fakeProvider{rows: map[string][]Row{
		"depts": {
			{"dept": "HR", "deptId": 1.0},
			{"dept": "HR", "deptId": 1.0},
			{"dept": "IT", "deptId": 2.0},
		},
	}}

	options, err := ResolveOptions(context.Background(), provider, &DataBinding{
		SourceID: "depts", DisplayField: "dept", ValueField: "deptId",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Option{{Label: "HR", Value: "1"}, {Label: "IT", Value: "2"}}
	if !reflect.DeepEqual(options, expected) {
		t.Errorf("options = %v, expected %v", options, expected)
	}
}

// TestResolveOptionsSingleField 测试单字段投影：去空、去重、排序
func TestResolveOptionsSingleField(t *testing.T) {
	t.Run("全数字按数值排序", func(t *testing.T) {
		provider := &fakeProvider{rows: map[string][]Row{
			"nums": {
				{"score": 10.0},
				{"score": 2.0},
				{"score": nil},
				{"score": 10.0},
				{"score": 1.0},
			},
		}}
		options, err := ResolveOptions(context.Background(), provider, &DataBinding{
			SourceID: "nums", ValueField: "score",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var values []string
		for _, o := range options {
			values = append(values, o.Value)
		}
		// 字符串排序会把"10"排在"2"前面，数值排序不会
		if !reflect.DeepEqual(values, []string{"1", "2", "10"}) {
			t.Errorf("values = %v, expected numeric ascending", values)
		}
	})

	t.Run("含非数字按字符串排序", func(t *testing.T) {
		provider := &fakeProvider{rows: map[string][]Row{
			"cities": {
				{"city": "Shanghai"},
				{"city": "Beijing"},
				{"city": "Shanghai"},
				{"city": "Chengdu"},
			},
		}}
		options, err := ResolveOptions(context.Background(), provider, &DataBinding{
			SourceID: "cities", DisplayField: "city",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var values []string
		for _, o := range options {
			values = append(values, o.Value)
		}
		if !reflect.DeepEqual(values, []string{"Beijing", "Chengdu", "Shanghai"}) {
			t.Errorf("values = %v, expected sorted unique cities", values)
		}
	})
}

// TestResolveOptionsProviderError 测试数据源失败返回空列表加错误，不panic
func TestResolveOptionsProviderError(t *testing.T) {
	provider := &fakeProvider{fetchErr: errors.New("connection refused")}

	options, err := ResolveOptions(context.Background(), provider, &DataBinding{
		SourceID: "depts", ValueField: "deptId",
	})
	if options == nil || len(options) != 0 {
		t.Errorf("options = %v, expected empty list", options)
	}
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("err = %v, expected ProviderError", err)
	}
	if pErr.SourceID != "depts" || pErr.Op != "fetch" {
		t.Errorf("ProviderError = %+v", pErr)
	}
}

func tableRows() map[string][]Row {
	return map[string][]Row{
		"emps": {
			{"name": "Alice", "dept": "HR", "age": 30.0},
			{"name": "bob", "dept": "IT", "age": nil},
			{"name": "Carol", "dept": "Engineering", "age": 25.0},
			{"name": "dave", "dept": "IT", "age": 41.0},
		},
	}
}

// TestResolveTableRows 测试表格行的过滤与排序
func TestResolveTableRows(t *testing.T) {
	binding := &DataBinding{SourceID: "emps"}
	columns := []string{"name", "dept"}

	t.Run("大小写不敏感子串过滤OR所有列", func(t *testing.T) {
		provider := &fakeProvider{rows: tableRows()}
		rows, err := ResolveTableRows(context.Background(), provider, binding, columns, "it", "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// "it" 命中 dept=IT 两行，不命中其他
		if len(rows) != 2 {
			t.Fatalf("rows = %v, expected 2 matches", rows)
		}
	})

	t.Run("数值列升序且空值在前", func(t *testing.T) {
		provider := &fakeProvider{rows: tableRows()}
		rows, err := ResolveTableRows(context.Background(), provider, binding, columns, "", "age", SortAsc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[0]["age"] != nil {
			t.Errorf("first row age = %v, expected null first ascending", rows[0]["age"])
		}
		if rows[1]["age"] != 25.0 || rows[3]["age"] != 41.0 {
			t.Errorf("numeric order wrong: %v", rows)
		}
	})

	t.Run("降序时空值在后", func(t *testing.T) {
		provider := &fakeProvider{rows: tableRows()}
		rows, err := ResolveTableRows(context.Background(), provider, binding, columns, "", "age", SortDesc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[len(rows)-1]["age"] != nil {
			t.Errorf("last row age = %v, expected null last descending", rows[len(rows)-1]["age"])
		}
		if rows[0]["age"] != 41.0 {
			t.Errorf("first row age = %v, expected max", rows[0]["age"])
		}
	})

	t.Run("非数值列按字符串排序", func(t *testing.T) {
		provider := &fakeProvider{rows: tableRows()}
		rows, err := ResolveTableRows(context.Background(), provider, binding, columns, "", "dept", SortAsc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[0]["dept"] != "Engineering" {
			t.Errorf("first dept = %v", rows[0]["dept"])
		}
	})
}

// TestUpdateCell 测试单元格更新透传
func TestUpdateCell(t *testing.T) {
	t.Run("成功透传", func(t *testing.T) {
		provider := &fakeProvider{rows: tableRows()}
		if err := UpdateCell(context.Background(), provider, "emps", 1, map[string]interface{}{"dept": "HR"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(provider.updates) != 1 {
			t.Error("provider update was not called")
		}
	})

	t.Run("失败包装为ProviderError", func(t *testing.T) {
		provider := &fakeProvider{updateErr: errors.New("row locked")}
		err := UpdateCell(context.Background(), provider, "emps", 1, map[string]interface{}{"dept": "HR"})
		var pErr *ProviderError
		if !errors.As(err, &pErr) || pErr.Op != "update" {
			t.Errorf("err = %v, expected ProviderError(update)", err)
		}
	})
}

// TestRenderForm 测试渲染投影
func TestRenderForm(t *testing.T) {
	provider := &fakeProvider{rows: map[string][]Row{
		"depts": {{"dept": "HR", "deptId": 1.0}, {"dept": "IT", "deptId": 2.0}},
	}}

	tree := []FormElement{
		{
			ID:   "sec",
			Type: FieldTypeSection,
			Elements: []FormElement{
				{ID: "f-dept", Type: FieldTypeDropdown, Name: "dept",
					DataSource: &DataBinding{SourceID: "depts", DisplayField: "dept", ValueField: "deptId"}},
				{ID: "f-hidden", Type: FieldTypeText, Name: "other",
					VisibleWhen: &Condition{Field: "mode", Operator: OpEqual, Value: "advanced"}},
			},
		},
	}

	rendered, issues := RenderForm(context.Background(), provider, tree, map[string]interface{}{"mode": "simple"})
	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}

	if len(rendered[0].Elements) != 1 {
		t.Fatalf("hidden element was not removed: %+v", rendered[0].Elements)
	}
	dept := rendered[0].Elements[0]
	if len(dept.Options) != 2 || dept.Options[0].Label != "HR" {
		t.Errorf("resolved options = %v", dept.Options)
	}

	// 原树未被修改
	if len(tree[0].Elements) != 2 || tree[0].Elements[0].Options != nil {
		t.Error("RenderForm mutated the source tree")
	}

	t.Run("数据源失败收集为issue", func(t *testing.T) {
		bad := &fakeProvider{fetchErr: errors.New("boom")}
		rendered, issues := RenderForm(context.Background(), bad, tree, map[string]interface{}{})
		if len(issues) != 1 {
			t.Fatalf("issues = %v, expected 1", issues)
		}
		if opts := rendered[0].Elements[0].Options; len(opts) != 0 {
			t.Errorf("options = %v, expected empty on provider failure", opts)
		}
	})
}
