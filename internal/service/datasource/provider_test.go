package datasource

import (
	"testing"

	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/datatypes"
)

func TestExtractRows(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		rowsPath string
		wantLen  int
		wantErr  bool
	}{
		{
			name:    "响应体本身是数组",
			body:    `[{"id": 1}, {"id": 2}]`,
			wantLen: 2,
		},
		{
			name:     "单层路径",
			body:     `{"data": [{"id": 1}]}`,
			rowsPath: "data",
			wantLen:  1,
		},
		{
			name:     "嵌套路径",
			body:     `{"result": {"items": [{"id": 1}, {"id": 2}, {"id": 3}]}}`,
			rowsPath: "result.items",
			wantLen:  3,
		},
		{
			name:     "路径不存在",
			body:     `{"data": []}`,
			rowsPath: "missing",
			wantErr:  true,
		},
		{
			name:     "路径指向非数组",
			body:     `{"data": {"id": 1}}`,
			rowsPath: "data",
			wantErr:  true,
		},
		{
			name:    "响应体不是数组",
			body:    `{"id": 1}`,
			wantErr: true,
		},
		{
			name:     "非对象元素被跳过",
			body:     `{"data": [{"id": 1}, "junk", {"id": 2}]}`,
			rowsPath: "data",
			wantLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := extractRows([]byte(tt.body), tt.rowsPath)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("意外错误: %v", err)
			}
			if len(rows) != tt.wantLen {
				t.Errorf("行数 = %d, 期望 %d", len(rows), tt.wantLen)
			}
		})
	}
}

func TestFetchStatic(t *testing.T) {
	t.Run("读取配置中的行", func(t *testing.T) {
		source := &model.DataSource{
			Type:   model.DataSourceTypeStatic,
			Config: datatypes.JSON(`{"rows": [{"dept": "HR"}, {"dept": "IT"}]}`),
		}
		rows, err := fetchStatic(source)
		if err != nil {
			t.Fatalf("意外错误: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("行数 = %d, 期望 2", len(rows))
		}
		if rows[0]["dept"] != "HR" {
			t.Errorf("rows[0].dept = %v, 期望 HR", rows[0]["dept"])
		}
	})

	t.Run("缺少rows字段返回空切片", func(t *testing.T) {
		source := &model.DataSource{Config: datatypes.JSON(`{}`)}
		rows, err := fetchStatic(source)
		if err != nil {
			t.Fatalf("意外错误: %v", err)
		}
		if rows == nil || len(rows) != 0 {
			t.Errorf("期望空切片, 得到 %v", rows)
		}
	})

	t.Run("配置JSON无效返回错误", func(t *testing.T) {
		source := &model.DataSource{Config: datatypes.JSON(`{bad`)}
		if _, err := fetchStatic(source); err == nil {
			t.Fatal("期望返回错误")
		}
	})
}
