package domain

import "errors"

// 调度核心的业务错误。handler 层通过 errors.Is 把它们翻译成响应信息，
// 批量操作则把错误原因逐条放进 BatchResult，而不是整体抛出。
var (
	// 参数类错误：调用方输入有误，立即返回，不重试
	ErrInvalidWindow     = errors.New("时间段不合法：开始时间必须早于结束时间")
	ErrUnknownHolder     = errors.New("借用人不存在")
	ErrHolderInactive    = errors.New("借用人已离职")
	ErrUnknownEquipment  = errors.New("器材不存在")
	ErrEquipmentInactive = errors.New("器材已报废或停用")

	// 冲突类错误：提交时串行复查发现器材在该时间段已被占用
	ErrEquipmentUnavailable = errors.New("器材在该时间段内已被借出")

	// 归还类错误：重复归还是错误而不是静默成功
	ErrAssignmentNotFound = errors.New("借用记录不存在")
	ErrAssignmentReturned = errors.New("借用记录已归还")
)
