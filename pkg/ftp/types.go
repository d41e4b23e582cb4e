package ftp

import (
	"io"
	"time"
)

const (
	DefaultPort    = 21
	DefaultTimeout = 10 * time.Second
	// AnonymousUser 只支持匿名登录, 密码为空
	AnonymousUser = "anonymous"
)

// Config 定义连接配置
type Config struct {
	Timeout     time.Duration // 建立连接和单次读写的超时时间
	DisableEPSV bool          // 部分老旧服务器不支持 EPSV, 关闭后使用 PASV
	DebugOutput io.Writer     // 非空时输出控制连接上的原始协议内容
}

func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
	}
}
