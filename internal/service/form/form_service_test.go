package form

import (
	"testing"

	"gorm.io/datatypes"
)

func TestParseElements(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{
			name:    "空树",
			raw:     "",
			wantLen: 0,
		},
		{
			name:    "空数组",
			raw:     `[]`,
			wantLen: 0,
		},
		{
			name: "合法的嵌套树",
			raw: `[
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-name", "type": "text", "name": "name"},
					{"id": "btn-1", "type": "button", "button_action": {"type": "submit-form"}}
				]}
			]`,
			wantLen: 1,
		},
		{
			name:    "非法JSON",
			raw:     `{not json`,
			wantErr: true,
		},
		{
			name: "重复的元素ID",
			raw: `[
				{"id": "f-1", "type": "text", "name": "a"},
				{"id": "f-1", "type": "text", "name": "b"}
			]`,
			wantErr: true,
		},
		{
			name: "容器内的重复ID也被检测",
			raw: `[
				{"id": "f-1", "type": "text", "name": "a"},
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-1", "type": "number", "name": "b"}
				]}
			]`,
			wantErr: true,
		},
		{
			name: "容器ID与容器ID重复",
			raw: `[
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-1", "type": "text", "name": "a"}
				]},
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-2", "type": "text", "name": "b"}
				]}
			]`,
			wantErr: true,
		},
		{
			name: "叶子name重复",
			raw: `[
				{"id": "f-1", "type": "text", "name": "email"},
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-2", "type": "text", "name": "email"}
				]}
			]`,
			wantErr: true,
		},
		{
			name: "容器无name不参与name唯一性",
			raw: `[
				{"id": "sec-1", "type": "section", "elements": [
					{"id": "f-1", "type": "text", "name": "a"}
				]},
				{"id": "sec-2", "type": "section", "elements": [
					{"id": "f-2", "type": "text", "name": "b"}
				]}
			]`,
			wantLen: 2,
		},
		{
			name: "叶子元素缺少ID",
			raw: `[
				{"type": "text", "name": "a"}
			]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := ParseElements(datatypes.JSON(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("意外错误: %v", err)
			}
			if len(elements) != tt.wantLen {
				t.Errorf("元素数量 = %d, 期望 %d", len(elements), tt.wantLen)
			}
		})
	}
}
