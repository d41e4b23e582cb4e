package mirror

import (
	"io"
	"strings"
)

// DefaultChunkSize 每次从远程读取的块大小
const DefaultChunkSize = 8192

// Connection 是一次远程会话, 由 Mirror 在整个镜像过程中独占使用
type Connection interface {
	// ChangeDir 切换远程当前目录
	ChangeDir(path string) error
	// CurrentDir 返回远程当前目录的绝对路径
	CurrentDir() (string, error)
	// NameList 列出目录下的条目名称, 不包含类型信息
	NameList(path string) ([]string, error)
	// SetBinary 切换到二进制传输模式
	SetBinary() error
	// FileSize 查询远程文件声明的字节数
	FileSize(path string) (int64, error)
	// Retrieve 以 chunkSize 为单位流式读取远程文件, 每个数据块按顺序回调一次
	Retrieve(path string, chunkSize int, onChunk func(chunk []byte) error) error
}

// EntryLister 由能够返回条目类型的连接实现 (例如 FTP 的 LIST)
type EntryLister interface {
	List(path string) ([]Entry, error)
}

// LocalFS 本地文件系统
type LocalFS interface {
	EnsureDir(path string) error
	Create(path string) (io.WriteCloser, error)
}

// EntryKind 条目类型
type EntryKind int

const (
	KindDirectory EntryKind = iota
	KindFile
)

func (k EntryKind) String() string {
	if k == KindFile {
		return "file"
	}
	return "dir"
}

// Entry 目录列表中的一项
type Entry struct {
	Name string
	Kind EntryKind
}

// Classifier 根据条目名称判断类型
type Classifier func(name string) EntryKind

// ClassifyByName 名称中含有 "." 的视为文件, 其余视为目录
// 名为 v1.2 的目录会被误判为文件, 需要准确类型时使用 EntryLister
func ClassifyByName(name string) EntryKind {
	if strings.Contains(name, ".") {
		return KindFile
	}
	return KindDirectory
}

// Summary 一次镜像的统计结果, 仅用于展示
type Summary struct {
	Files    int
	Dirs     int
	Bytes    int64
	Failures int
}
