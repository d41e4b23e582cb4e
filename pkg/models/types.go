package models

import "time"

// Site 定义一个可复用的镜像站点
type Site struct {
	Address    string        `yaml:"address"` // IP 或 域名
	Port       int           `yaml:"port"`
	RemotePath string        `yaml:"remote_path"`
	LocalPath  string        `yaml:"local_path"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`

	// 传输相关
	ChunkSize         string `yaml:"chunk_size,omitempty"` // 例如 "8KB"
	FinalProgressOnly bool   `yaml:"final_progress_only,omitempty"`
	TypedListing      bool   `yaml:"typed_listing,omitempty"` // 使用 LIST 返回的类型代替按名称判断
	DisableEPSV       bool   `yaml:"disable_epsv,omitempty"`
	Progress          string `yaml:"progress,omitempty"` // "auto", "line", "bar", "log"
}
