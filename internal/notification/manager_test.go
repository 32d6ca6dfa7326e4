package notification

import (
	"strings"
	"testing"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/pkg/config"
)

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       engine.Event
		wantTitle   string
		wantContain string
	}{
		{
			name:        "表单提交事件",
			event:       engine.Event{Type: engine.EventSubmissionCreated, FormID: "form-1", SubmissionID: "sub-1", ActorID: "u-1"},
			wantTitle:   "表单提交",
			wantContain: "sub-1",
		},
		{
			name:        "审批申请事件",
			event:       engine.Event{Type: engine.EventApprovalRequested, SubmissionID: "sub-1", RequestID: "req-1", ActorID: "u-1"},
			wantTitle:   "审批申请",
			wantContain: "req-1",
		},
		{
			name: "审批结果事件带状态",
			event: engine.Event{
				Type: engine.EventApprovalResolved, RequestID: "req-1", ActorID: "admin",
				Payload: map[string]interface{}{"status": "approved"},
			},
			wantTitle:   "审批结果",
			wantContain: "approved",
		},
		{
			name:        "回调事件使用Hook消息",
			event:       engine.Event{Type: engine.EventHookTriggered, Hook: &engine.Hook{Message: "提交成功"}},
			wantTitle:   "动作回调",
			wantContain: "提交成功",
		},
		{
			name:      "空Hook的回调事件被忽略",
			event:     engine.Event{Type: engine.EventHookTriggered, Hook: &engine.Hook{}},
			wantTitle: "",
		},
		{
			name:      "未知事件类型被忽略",
			event:     engine.Event{Type: engine.EventType("unknown")},
			wantTitle: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content := formatEvent(tt.event)
			if title != tt.wantTitle {
				t.Errorf("title = %q, 期望 %q", title, tt.wantTitle)
			}
			if tt.wantContain != "" && !strings.Contains(content, tt.wantContain) {
				t.Errorf("content = %q, 期望包含 %q", content, tt.wantContain)
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	t.Run("未配置渠道时没有通知器", func(t *testing.T) {
		m := NewManager(&config.NotificationConfig{})
		if len(m.notifiers) != 0 {
			t.Errorf("通知器数量 = %d, 期望 0", len(m.notifiers))
		}
	})

	t.Run("启用飞书和钉钉时各注册一个通知器", func(t *testing.T) {
		m := NewManager(&config.NotificationConfig{
			FeishuEnabled: true, FeishuWebhook: "https://example.com/feishu",
			DingTalkEnabled: true, DingTalkWebhook: "https://example.com/dingtalk",
		})
		if len(m.notifiers) != 2 {
			t.Errorf("通知器数量 = %d, 期望 2", len(m.notifiers))
		}
	})

	t.Run("启用但缺少webhook时跳过", func(t *testing.T) {
		m := NewManager(&config.NotificationConfig{FeishuEnabled: true})
		if len(m.notifiers) != 0 {
			t.Errorf("通知器数量 = %d, 期望 0", len(m.notifiers))
		}
	})

	t.Run("nil配置不panic", func(t *testing.T) {
		m := NewManager(nil)
		m.HandleEvent(engine.Event{Type: engine.EventSubmissionCreated})
	})
}
