package events

import (
	"sync"
	"testing"
	"time"

	"github.com/fisker/formflow-backend/internal/engine"
)

func TestHubSubscribe(t *testing.T) {
	t.Run("订阅者收到发布的事件", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		ch, cancel := hub.Subscribe()
		defer cancel()

		hub.Publish(engine.Event{Type: engine.EventSubmissionCreated, FormID: "form-1"})

		select {
		case event := <-ch:
			if event.Type != engine.EventSubmissionCreated {
				t.Errorf("事件类型 = %s, 期望 %s", event.Type, engine.EventSubmissionCreated)
			}
			if event.FormID != "form-1" {
				t.Errorf("FormID = %s, 期望 form-1", event.FormID)
			}
		case <-time.After(time.Second):
			t.Fatal("超时未收到事件")
		}
	})

	t.Run("取消订阅后通道关闭", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		ch, cancel := hub.Subscribe()
		cancel()

		if _, ok := <-ch; ok {
			t.Error("取消订阅后通道应已关闭")
		}
	})

	t.Run("重复取消订阅不会panic", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		_, cancel := hub.Subscribe()
		cancel()
		cancel()
	})

	t.Run("多个订阅者都收到事件", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		ch1, cancel1 := hub.Subscribe()
		defer cancel1()
		ch2, cancel2 := hub.Subscribe()
		defer cancel2()

		hub.Publish(engine.Event{Type: engine.EventApprovalRequested})

		for i, ch := range []<-chan engine.Event{ch1, ch2} {
			select {
			case event := <-ch:
				if event.Type != engine.EventApprovalRequested {
					t.Errorf("订阅者 %d 事件类型 = %s", i, event.Type)
				}
			case <-time.After(time.Second):
				t.Fatalf("订阅者 %d 超时未收到事件", i)
			}
		}
	})
}

func TestHubHandler(t *testing.T) {
	t.Run("同步处理器在发布时被调用", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		var mu sync.Mutex
		var received []engine.EventType
		hub.AddHandler(func(event engine.Event) {
			mu.Lock()
			received = append(received, event.Type)
			mu.Unlock()
		})

		hub.Publish(engine.Event{Type: engine.EventSubmissionCreated})
		hub.Publish(engine.Event{Type: engine.EventApprovalResolved})

		mu.Lock()
		defer mu.Unlock()
		if len(received) != 2 {
			t.Fatalf("处理器调用次数 = %d, 期望 2", len(received))
		}
		if received[0] != engine.EventSubmissionCreated || received[1] != engine.EventApprovalResolved {
			t.Errorf("事件顺序错误: %v", received)
		}
	})
}

func TestHubSlowSubscriber(t *testing.T) {
	t.Run("慢订阅者不阻塞发布", func(t *testing.T) {
		hub := NewHub()
		defer hub.Close()

		// 订阅但从不消费，填满缓冲后 Publish 应直接丢弃
		_, cancel := hub.Subscribe()
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				hub.Publish(engine.Event{Type: engine.EventHookTriggered})
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("发布被慢订阅者阻塞")
		}
	})
}

func TestHubClose(t *testing.T) {
	t.Run("关闭后发布是no-op", func(t *testing.T) {
		hub := NewHub()
		ch, _ := hub.Subscribe()
		hub.Close()

		hub.Publish(engine.Event{Type: engine.EventSubmissionCreated})

		if _, ok := <-ch; ok {
			t.Error("关闭后通道应无事件且已关闭")
		}
	})
}
