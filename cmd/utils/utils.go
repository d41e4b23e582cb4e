package utils

import (
	"fmt"
	"net"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ConfigDirName  = ".ftpmirror"
	ConfigFileName = "config.yaml"
)

// ParseHost 解析 host:port 格式的字符串, 也接受 ftp://host:port/path 形式 (路径部分会被返回)
// 未指定端口时返回 0, 端口无效时返回错误
func ParseHost(input string) (host string, port uint16, remotePath string, err error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "ftp://")
	if idx := strings.Index(input, "/"); idx != -1 {
		remotePath = input[idx:]
		input = input[:idx]
	}
	// 带方括号的 IPv6 地址
	if h, p, splitErr := net.SplitHostPort(input); splitErr == nil {
		port, err = ParsePort(p)
		return h, port, remotePath, err
	}
	if colon := strings.LastIndex(input, ":"); colon != -1 && !strings.Contains(input[:colon], ":") {
		port, err = ParsePort(input[colon+1:])
		return input[:colon], port, remotePath, err
	}
	return strings.Trim(input, "[]"), 0, remotePath, nil
}

// ParsePort 解析端口字符串
// 如果输入为空字符串，则返回0
func ParsePort(input string) (uint16, error) {
	if input == "" {
		return 0, nil
	}
	port64, err := strconv.ParseUint(input, 10, 16)
	if err != nil || port64 == 0 {
		return 0, fmt.Errorf("无效的端口: %s", input)
	}
	return uint16(port64), nil
}

func GetConfigFilePath() string {
	user, err := user.Current()
	if err != nil {
		return filepath.Join(ConfigDirName, ConfigFileName)
	}
	return filepath.Join(user.HomeDir, ConfigDirName, ConfigFileName)
}
