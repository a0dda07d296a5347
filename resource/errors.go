package resource

import "errors"

// ErrPending 表示资源尚未加载完成。
var ErrPending = errors.New("resource not loaded yet")
