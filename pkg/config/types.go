package config

import (
	"github.com/wentf9/ftpmirror/pkg/models"
)

// Configuration 对应 yaml 文件的顶层结构
type Configuration struct {
	LogLevel string                 `yaml:"log_level,omitempty"`
	Sites    map[string]models.Site `yaml:"sites"`
}

// ConfigProvider 定义命令获取站点配置的接口
type ConfigProvider interface {
	GetSite(name string) (models.Site, bool)
	AddSite(name string, site models.Site)
	DeleteSite(name string) bool
	ListSites() []string
	Find(input string) string
}
