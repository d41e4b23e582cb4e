package mirror

import "errors"

var (
	// ErrNavigation 远程目录不存在, 无法进入或无法列出
	ErrNavigation = errors.New("remote navigation failed")
	// ErrSizeQuery 无法获取远程文件大小
	ErrSizeQuery = errors.New("remote size query failed")
	// ErrTransfer 传输过程中的网络或协议错误
	ErrTransfer = errors.New("transfer failed")
	// ErrLocalIO 本地目录或文件的创建/写入失败
	ErrLocalIO = errors.New("local io failed")
)
