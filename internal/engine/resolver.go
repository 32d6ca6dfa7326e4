package engine

import (
	"context"
	"sort"
	"strings"
)

// Row 外部数据源的一行记录
type Row = map[string]interface{}

// DataProvider 外部数据源协作者，引擎把每个数据源当作不透明的表格数据提供方
// fetch/update 属于阻塞IO，超时与取消由提供方层面处理
type DataProvider interface {
	Fetch(ctx context.Context, sourceID string) ([]Row, error)
	Update(ctx context.Context, sourceID string, rowIndex int, patch map[string]interface{}) error
}

// ResolveOptions 解析数据绑定字段的选项列表
//
// display 与 value 指向同一字段（或只给了一个）时：投影该字段、去掉空值、
// 按值去重、升序排序（全为数字按数值排，否则按字符串排）。
// 两个字段不同：单次扫描按 value 去重，保留首次出现，维持源顺序不排序。
//
// 数据源失败时返回空选项列表和 ProviderError，绝不向渲染路径抛异常
func ResolveOptions(ctx context.Context, provider DataProvider, binding *DataBinding) ([]Option, error) {
	if binding == nil || binding.SourceID == "" {
		return []Option{}, nil
	}

	rows, err := provider.Fetch(ctx, binding.SourceID)
	if err != nil {
		return []Option{}, &ProviderError{SourceID: binding.SourceID, Op: "fetch", Err: err}
	}

	displayField := binding.DisplayField
	valueField := binding.ValueField
	if displayField == "" {
		displayField = valueField
	}
	if valueField == "" {
		valueField = displayField
	}
	if valueField == "" {
		return []Option{}, nil
	}

	if displayField == valueField {
		return distinctSortedOptions(rows, valueField), nil
	}
	return pairedOptions(rows, displayField, valueField), nil
}

// distinctSortedOptions 单字段投影：去空、去重、升序
func distinctSortedOptions(rows []Row, field string) []Option {
	seen := make(map[string]bool)
	var raw []interface{}
	for _, row := range rows {
		v, ok := row[field]
		if !ok || v == nil {
			continue
		}
		key := toString(v)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		raw = append(raw, v)
	}

	// 全为数字按数值比较，否则按字符串比较
	allNumeric := len(raw) > 0
	for _, v := range raw {
		if _, ok := toNumber(v); !ok {
			allNumeric = false
			break
		}
	}
	sort.SliceStable(raw, func(i, j int) bool {
		if allNumeric {
			a, _ := toNumber(raw[i])
			b, _ := toNumber(raw[j])
			return a < b
		}
		return strings.Compare(toString(raw[i]), toString(raw[j])) < 0
	})

	options := make([]Option, 0, len(raw))
	for _, v := range raw {
		s := toString(v)
		options = append(options, Option{Label: s, Value: s})
	}
	return options
}

// pairedOptions 双字段投影：按 value 去重保留首次出现，保持源顺序
func pairedOptions(rows []Row, displayField, valueField string) []Option {
	seen := make(map[string]bool)
	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		v, ok := row[valueField]
		if !ok || v == nil {
			continue
		}
		value := toString(v)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		options = append(options, Option{
			Label: toString(row[displayField]),
			Value: value,
		})
	}
	return options
}

// SortDirection 表格排序方向
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ResolveTableRows 解析表格/画廊字段的行数据
//
// searchTerm 过滤为大小写不敏感的子串匹配，对所有可见列做 OR；
// 排序稳定，空值按方向排在最前（升序）或最后（降序），
// 数值列按数值比较，其余按字符串比较
func ResolveTableRows(ctx context.Context, provider DataProvider, binding *DataBinding, visibleColumns []string, searchTerm string, sortField string, direction SortDirection) ([]Row, error) {
	if binding == nil || binding.SourceID == "" {
		return []Row{}, nil
	}

	rows, err := provider.Fetch(ctx, binding.SourceID)
	if err != nil {
		return []Row{}, &ProviderError{SourceID: binding.SourceID, Op: "fetch", Err: err}
	}

	if searchTerm != "" {
		rows = filterRows(rows, visibleColumns, searchTerm)
	}

	if sortField != "" {
		sortRows(rows, sortField, direction)
	}

	return rows, nil
}

// filterRows 子串过滤，OR 所有可见列
func filterRows(rows []Row, columns []string, term string) []Row {
	term = strings.ToLower(term)
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		cols := columns
		if len(cols) == 0 {
			cols = rowColumns(row)
		}
		for _, col := range cols {
			if strings.Contains(strings.ToLower(toString(row[col])), term) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

func rowColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// sortRows 稳定排序
func sortRows(rows []Row, field string, direction SortDirection) {
	desc := direction == SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i][field]
		b, bok := rows[j][field]
		aNull := !aok || a == nil
		bNull := !bok || b == nil

		// 空值：升序排最前，降序排最后
		if aNull || bNull {
			if aNull && bNull {
				return false
			}
			if desc {
				return !aNull
			}
			return aNull
		}

		var less bool
		an, anok := toNumber(a)
		bn, bnok := toNumber(b)
		if anok && bnok {
			less = an < bn
		} else {
			less = strings.Compare(toString(a), toString(b)) < 0
		}
		if desc {
			return !less && !equalForSort(a, b)
		}
		return less
	})
}

func equalForSort(a, b interface{}) bool {
	an, anok := toNumber(a)
	bn, bnok := toNumber(b)
	if anok && bnok {
		return an == bn
	}
	return toString(a) == toString(b)
}

// UpdateCell 把单元格修改透传给外部数据源
// 失败时不重试不补偿，调用方持有的上次拉取结果仍然是权威数据，直到下次拉取
func UpdateCell(ctx context.Context, provider DataProvider, sourceID string, rowIndex int, patch map[string]interface{}) error {
	if err := provider.Update(ctx, sourceID, rowIndex, patch); err != nil {
		return &ProviderError{SourceID: sourceID, Op: "update", Err: err}
	}
	return nil
}
