package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/wentf9/ftpmirror/pkg/logger"
	"github.com/wentf9/ftpmirror/pkg/progress"
	"github.com/wentf9/ftpmirror/pkg/utils/file"
)

// Option 定义配置函数的类型
type Option func(*Mirror)

func WithLocalFS(fs LocalFS) Option {
	return func(m *Mirror) {
		if fs != nil {
			m.fs = fs
		}
	}
}

func WithClassifier(c Classifier) Option {
	return func(m *Mirror) {
		if c != nil {
			m.classify = c
		}
	}
}

// WithTypedListing 连接支持 EntryLister 时使用协议返回的条目类型, 不再按名称猜测
func WithTypedListing(enabled bool) Option {
	return func(m *Mirror) {
		m.typedListing = enabled
	}
}

// WithFinalProgressOnly 每个文件只在完成时报告一次进度
func WithFinalProgressOnly(enabled bool) Option {
	return func(m *Mirror) {
		m.finalOnly = enabled
	}
}

func WithReporter(f progress.Factory) Option {
	return func(m *Mirror) {
		if f != nil {
			m.reporters = f
		}
	}
}

// WithOutput 设置下载提示和换行的输出位置
func WithOutput(w io.Writer) Option {
	return func(m *Mirror) {
		if w != nil {
			m.out = w
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.log = l
		}
	}
}

func WithChunkSize(size int) Option {
	return func(m *Mirror) {
		if size > 0 {
			m.chunkSize = size
		}
	}
}

// Mirror 把远程目录树逐个文件地复制到本地
type Mirror struct {
	conn         Connection
	fs           LocalFS
	classify     Classifier
	reporters    progress.Factory
	out          io.Writer
	log          *slog.Logger
	chunkSize    int
	finalOnly    bool
	typedListing bool
}

// New 基于已经登录的连接创建 Mirror
func New(conn Connection, opts ...Option) *Mirror {
	m := &Mirror{
		conn:      conn,
		fs:        file.NewOS(),
		classify:  ClassifyByName,
		reporters: progress.LineReporter(os.Stdout),
		out:       os.Stdout,
		log:       logger.Logger,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DownloadTree 把 remotePath 镜像到 localPath
// 每一层目录的错误只会中止该目录剩余的条目, 错误被记录后继续处理上层的其它条目,
// 因此结果可能是部分镜像. 返回值只用于展示统计信息.
func (m *Mirror) DownloadTree(ctx context.Context, remotePath, localPath string) Summary {
	var sum Summary
	if err := m.downloadTree(ctx, remotePath, localPath, &sum); err != nil {
		m.fail(remotePath, localPath, err, &sum)
	}
	return sum
}

func (m *Mirror) downloadTree(ctx context.Context, remote, local string, sum *Summary) error {
	if err := m.conn.ChangeDir(remote); err != nil {
		return fmt.Errorf("%w: cd %s: %w", ErrNavigation, remote, err)
	}
	// 子目录一律使用绝对路径, 不依赖连接遗留的当前目录
	if !path.IsAbs(remote) {
		cwd, err := m.conn.CurrentDir()
		if err != nil {
			return fmt.Errorf("%w: pwd after cd %s: %w", ErrNavigation, remote, err)
		}
		remote = cwd
	}
	if err := m.fs.EnsureDir(local); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrLocalIO, local, err)
	}
	sum.Dirs++

	entries, err := m.list(remote)
	if err != nil {
		return fmt.Errorf("%w: list %s: %w", ErrNavigation, remote, err)
	}
	m.log.Debug("listed remote directory", "remote", remote, "entries", len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		remoteChild := path.Join(remote, e.Name)
		localChild := filepath.Join(local, e.Name)
		m.log.Debug("entry", "remote", remoteChild, "kind", e.Kind)

		if e.Kind == KindFile {
			if err := m.downloadFile(remoteChild, localChild, e.Name, sum); err != nil {
				return err
			}
			continue
		}
		if err := m.downloadTree(ctx, remoteChild, localChild, sum); err != nil {
			// 取消时直接返回, 由最外层记录一次
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			m.fail(remoteChild, localChild, err, sum)
		}
	}
	return nil
}

func (m *Mirror) list(remote string) ([]Entry, error) {
	if lister, ok := m.conn.(EntryLister); ok && m.typedListing {
		entries, err := lister.List(remote)
		if err != nil {
			return nil, err
		}
		out := entries[:0]
		for _, e := range entries {
			if name, ok := entryName(e.Name); ok {
				out = append(out, Entry{Name: name, Kind: e.Kind})
			}
		}
		return out, nil
	}

	names, err := m.conn.NameList(remote)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, raw := range names {
		name, ok := entryName(raw)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Name: name, Kind: m.classify(listedName(raw))})
	}
	return entries, nil
}

// listedName 去掉 NLST 可能带上的目录前缀 (如 /pub/sdk-1.0/include), 保留结尾的 "/",
// 父目录名中的 "." 不参与分类
func listedName(raw string) string {
	trimmed := strings.TrimSuffix(raw, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return raw
	}
	return raw[i+1:]
}

// entryName 去掉服务器可能返回的路径前缀, 跳过 "." 和 ".."
func entryName(raw string) (string, bool) {
	name := path.Base(strings.TrimSuffix(raw, "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", false
	}
	return name, true
}

func (m *Mirror) downloadFile(remote, local, name string, sum *Summary) error {
	fmt.Fprintf(m.out, "Downloading from FTP: %s\n", name)

	if err := m.conn.SetBinary(); err != nil {
		return fmt.Errorf("%w: set binary mode: %w", ErrTransfer, err)
	}
	size, err := m.conn.FileSize(remote)
	if err != nil {
		return fmt.Errorf("%w: size %s: %w", ErrSizeQuery, remote, err)
	}
	tracker := progress.NewTracker(size, m.finalOnly, m.reporters(name, size))

	w, err := m.fs.Create(local)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrLocalIO, local, err)
	}
	err = m.conn.Retrieve(remote, m.chunkSize, func(chunk []byte) error {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrLocalIO, local, err)
		}
		tracker.OnChunk(chunk)
		return nil
	})
	closeErr := w.Close()
	if err == nil {
		tracker.Finish()
	}
	fmt.Fprintln(m.out) // 进度行之后换行

	if err != nil {
		if errors.Is(err, ErrLocalIO) {
			return err
		}
		return fmt.Errorf("%w: retrieve %s: %w", ErrTransfer, remote, err)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close %s: %w", ErrLocalIO, local, closeErr)
	}
	sum.Files++
	sum.Bytes += tracker.Written()
	return nil
}

func (m *Mirror) fail(remote, local string, err error, sum *Summary) {
	sum.Failures++
	m.log.Error("download tree failed", "remote", remote, "local", local, "err", err)
}
