package notification

import (
	"fmt"
	"sync"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/logger"
)

// Manager 通知管理器，把工作流事件翻译成消息并投递到所有已配置渠道
type Manager struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// NewManager 按配置创建通知管理器
func NewManager(cfg *config.NotificationConfig) *Manager {
	m := &Manager{}
	if cfg == nil {
		return m
	}

	if cfg.FeishuEnabled && cfg.FeishuWebhook != "" {
		m.AddNotifier(NewFeishuNotifier(cfg.FeishuWebhook, cfg.FeishuSecret))
		logger.Info("飞书通知渠道已启用")
	}
	if cfg.DingTalkEnabled && cfg.DingTalkWebhook != "" {
		m.AddNotifier(NewDingTalkNotifier(cfg.DingTalkWebhook, cfg.DingTalkSecret))
		logger.Info("钉钉通知渠道已启用")
	}
	return m
}

// AddNotifier 添加一个通知渠道
func (m *Manager) AddNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// HandleEvent 消费一条工作流事件，作为事件总线的同步处理器注册
// 实际投递在独立协程中完成，不阻塞分发路径
func (m *Manager) HandleEvent(event engine.Event) {
	title, content := formatEvent(event)
	if title == "" {
		return
	}

	m.mu.RLock()
	notifiers := make([]Notifier, len(m.notifiers))
	copy(notifiers, m.notifiers)
	m.mu.RUnlock()

	// 回调中声明的 webhook 单独投递一次
	if event.Hook != nil && event.Hook.Webhook != "" {
		notifiers = append(notifiers, NewWebhookNotifier(event.Hook.Webhook))
	}

	if len(notifiers) == 0 {
		return
	}

	go func() {
		for _, n := range notifiers {
			if err := n.SendMessage(title, content); err != nil {
				logger.Warnf("通知投递失败: event=%s err=%v", event.Type, err)
			}
		}
	}()
}

// formatEvent 把工作流事件翻译成标题与正文，未知事件类型返回空标题
func formatEvent(event engine.Event) (title, content string) {
	switch event.Type {
	case engine.EventSubmissionCreated:
		title = "表单提交"
		content = fmt.Sprintf("表单 **%s** 收到新提交 %s\n提交人: %s",
			event.FormID, event.SubmissionID, event.ActorID)
	case engine.EventApprovalRequested:
		title = "审批申请"
		content = fmt.Sprintf("提交 %s 发起了审批申请 %s\n申请人: %s",
			event.SubmissionID, event.RequestID, event.ActorID)
	case engine.EventApprovalResolved:
		status := ""
		if event.Payload != nil {
			status, _ = event.Payload["status"].(string)
		}
		title = "审批结果"
		content = fmt.Sprintf("审批申请 %s 已处理: **%s**\n审批人: %s",
			event.RequestID, status, event.ActorID)
	case engine.EventHookTriggered:
		if event.Hook == nil || (event.Hook.Message == "" && event.Hook.Webhook == "") {
			return "", ""
		}
		title = "动作回调"
		content = event.Hook.Message
	}
	return title, content
}
