package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrCrossCompany 跨公司访问：目标实体属于其他公司
// 对外统一按 403 处理，不暴露实体是否存在
var ErrCrossCompany = errors.New("无权访问该资源")
