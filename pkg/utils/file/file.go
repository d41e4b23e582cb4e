package file

import (
	"io"
	"os"
)

// OS 是基于本地磁盘的文件系统实现
type OS struct {
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

// NewOS 返回使用常规权限 (目录 0755, 文件 0644) 的本地文件系统
func NewOS() OS {
	return OS{DirPerm: 0755, FilePerm: 0644}
}

// EnsureDir 递归创建目录, 目录已存在时直接返回
func (f OS) EnsureDir(path string) error {
	return os.MkdirAll(path, f.DirPerm)
}

// Create 创建 (或截断) 文件用于写入
func (f OS) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.FilePerm)
}
