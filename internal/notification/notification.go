package notification

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fisker/formflow-backend/pkg/logger"
)

// Notifier 通知接口
type Notifier interface {
	SendMessage(title, content string) error
}

// FeishuNotifier 飞书通知
type FeishuNotifier struct {
	WebhookURL string
	Secret     string
	client     *http.Client
}

// DingTalkNotifier 钉钉通知
type DingTalkNotifier struct {
	WebhookURL string
	Secret     string
	client     *http.Client
}

// WebhookNotifier 通用 Webhook 通知，POST JSON 到指定地址
// 用于按钮动作回调中声明的 webhook
type WebhookNotifier struct {
	URL    string
	client *http.Client
}

// NewFeishuNotifier 创建飞书通知器
func NewFeishuNotifier(webhookURL, secret string) *FeishuNotifier {
	return &FeishuNotifier{
		WebhookURL: webhookURL,
		Secret:     secret,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NewDingTalkNotifier 创建钉钉通知器
func NewDingTalkNotifier(webhookURL, secret string) *DingTalkNotifier {
	return &DingTalkNotifier{
		WebhookURL: webhookURL,
		Secret:     secret,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWebhookNotifier 创建通用 Webhook 通知器
func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    webhookURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage 发送飞书卡片消息
func (n *FeishuNotifier) SendMessage(title, content string) error {
	timestamp := time.Now().Unix()
	sign := n.genSign(timestamp)

	message := map[string]interface{}{
		"timestamp": fmt.Sprintf("%d", timestamp),
		"sign":      sign,
		"msg_type":  "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"elements": []map[string]interface{}{
				{
					"tag": "div",
					"text": map[string]interface{}{
						"content": content,
						"tag":     "lark_md",
					},
				},
				{
					"tag": "note",
					"elements": []map[string]interface{}{
						{
							"tag":     "plain_text",
							"content": fmt.Sprintf("时间: %s", time.Now().Format("2006-01-02 15:04:05")),
						},
					},
				},
			},
		},
	}

	return postJSON(n.client, n.WebhookURL, message)
}

// genSign 飞书机器人签名：HmacSHA256(timestamp + "\n" + secret)
func (n *FeishuNotifier) genSign(timestamp int64) string {
	if n.Secret == "" {
		return ""
	}
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, n.Secret)
	h := hmac.New(sha256.New, []byte(stringToSign))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// SendMessage 发送钉钉 markdown 消息
func (n *DingTalkNotifier) SendMessage(title, content string) error {
	webhookURL := n.WebhookURL
	if n.Secret != "" {
		timestamp := time.Now().UnixMilli()
		sign := n.genSign(timestamp)
		webhookURL = fmt.Sprintf("%s&timestamp=%d&sign=%s", webhookURL, timestamp, url.QueryEscape(sign))
	}

	message := map[string]interface{}{
		"msgtype": "markdown",
		"markdown": map[string]interface{}{
			"title": title,
			"text":  fmt.Sprintf("### %s\n\n%s", title, content),
		},
	}

	return postJSON(n.client, webhookURL, message)
}

// genSign 钉钉机器人签名：HmacSHA256(timestamp + "\n" + secret)
func (n *DingTalkNotifier) genSign(timestamp int64) string {
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, n.Secret)
	h := hmac.New(sha256.New, []byte(n.Secret))
	h.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// SendMessage POST 一个 {title, content} JSON 到目标地址
func (n *WebhookNotifier) SendMessage(title, content string) error {
	message := map[string]interface{}{
		"title":   title,
		"content": content,
		"time":    time.Now().Format(time.RFC3339),
	}
	return postJSON(n.client, n.URL, message)
}

func postJSON(client *http.Client, webhookURL string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("通知发送失败: status=%d body=%s", resp.StatusCode, string(body))
	}

	logger.Debugf("通知已发送: url=%s", webhookURL)
	return nil
}
