package engine

import (
	"errors"
	"testing"
)

// TestTransition 测试审批状态迁移矩阵
func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ApprovalStatus
		to      ApprovalStatus
		allowed bool
	}{
		{"pending到approved", ApprovalPending, ApprovalApproved, true},
		{"pending到rejected", ApprovalPending, ApprovalRejected, true},
		{"approved不可再变更", ApprovalApproved, ApprovalRejected, false},
		{"rejected不可再变更", ApprovalRejected, ApprovalApproved, false},
		{"approved回到pending非法", ApprovalApproved, ApprovalPending, false},
		{"pending到pending非法", ApprovalPending, ApprovalPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("Transition(%s, %s) = %v, expected nil", tt.from, tt.to, err)
			}
			if !tt.allowed && !errors.Is(err, ErrInvalidStateTransition) {
				t.Errorf("Transition(%s, %s) = %v, expected ErrInvalidStateTransition", tt.from, tt.to, err)
			}
		})
	}
}

// TestApprovalStatusTerminal 测试终态判断
func TestApprovalStatusTerminal(t *testing.T) {
	if ApprovalPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	if !ApprovalApproved.IsTerminal() || !ApprovalRejected.IsTerminal() {
		t.Error("approved/rejected must be terminal")
	}
}
