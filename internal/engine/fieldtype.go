// Package engine 实现表单定义与提交审批的核心引擎：
// 递归表单元素树、字段校验、按钮动作分发、审批状态机、数据绑定字段解析。
// 引擎本身不依赖存储与传输层，外部协作者通过接口注入。
package engine

// FieldType 字段类型标签
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEmail     FieldType = "email"
	FieldTypeDate      FieldType = "date"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeDropdown  FieldType = "dropdown"
	FieldTypeFile      FieldType = "file"
	FieldTypeDataTable FieldType = "datatable"
	FieldTypeGallery   FieldType = "gallery"
	FieldTypeButton    FieldType = "button"

	// 容器类型
	FieldTypeSection   FieldType = "section"
	FieldTypeColumns   FieldType = "columns"
	FieldTypeTabs      FieldType = "tabs"
	FieldTypeAccordion FieldType = "accordion"
)

// containerTypes 容器类型集合，容器不产生提交数据
var containerTypes = map[FieldType]bool{
	FieldTypeSection:   true,
	FieldTypeColumns:   true,
	FieldTypeTabs:      true,
	FieldTypeAccordion: true,
}

// IsContainer 判断字段类型是否为容器
func IsContainer(t FieldType) bool {
	return containerTypes[t]
}

// DefaultsFor 返回字段类型的默认配置片段
// 未知类型返回只带类型标签的空片段，不报错
func DefaultsFor(t FieldType) FormElement {
	el := FormElement{Type: t}

	switch t {
	case FieldTypeText:
		el.Label = "Text Field"
		el.Placeholder = "Enter text"
	case FieldTypeTextarea:
		el.Label = "Text Area"
		el.Placeholder = "Enter text"
	case FieldTypeNumber:
		el.Label = "Number"
		el.Placeholder = "Enter a number"
	case FieldTypeEmail:
		el.Label = "Email"
		el.Placeholder = "name@example.com"
	case FieldTypeDate:
		el.Label = "Date"
	case FieldTypeCheckbox:
		el.Label = "Checkbox"
	case FieldTypeRadio:
		el.Label = "Radio Group"
		el.Options = []Option{
			{Label: "Option 1", Value: "option1"},
			{Label: "Option 2", Value: "option2"},
		}
	case FieldTypeDropdown:
		el.Label = "Dropdown"
		el.Placeholder = "Select an option"
		el.Options = []Option{
			{Label: "Option 1", Value: "option1"},
			{Label: "Option 2", Value: "option2"},
		}
	case FieldTypeFile:
		el.Label = "File Upload"
	case FieldTypeDataTable:
		el.Label = "Data Table"
	case FieldTypeGallery:
		el.Label = "Gallery"
	case FieldTypeButton:
		el.Label = "Submit"
		el.ButtonAction = &ButtonAction{Type: ActionSubmitForm}
	case FieldTypeSection:
		el.Label = "Section"
		el.Elements = []FormElement{}
	case FieldTypeColumns:
		el.Columns = []Column{{Width: 6}, {Width: 6}}
	case FieldTypeTabs:
		el.Tabs = []Tab{{Title: "Tab 1"}}
	case FieldTypeAccordion:
		el.Items = []AccordionItem{{Title: "Item 1"}}
	}

	return el
}
