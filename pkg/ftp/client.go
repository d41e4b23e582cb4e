package ftp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/wentf9/ftpmirror/pkg/mirror"
)

// Option 定义配置函数的类型
type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.config.Timeout = d
		}
	}
}

func WithDisableEPSV(disabled bool) Option {
	return func(c *Client) {
		c.config.DisableEPSV = disabled
	}
}

func WithDebugOutput(w io.Writer) Option {
	return func(c *Client) {
		c.config.DebugOutput = w
	}
}

// Client 包装了 ftp.ServerConn, 实现 mirror.Connection 和 mirror.EntryLister
type Client struct {
	conn   *ftp.ServerConn
	addr   string
	config Config
}

var (
	_ mirror.Connection  = (*Client)(nil)
	_ mirror.EntryLister = (*Client)(nil)
)

// Dial 连接服务器并匿名登录
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	c := &Client{
		addr:   addr,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	dialOpts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(c.config.Timeout),
	}
	if c.config.DisableEPSV {
		dialOpts = append(dialOpts, ftp.DialWithDisabledEPSV(true))
	}
	if c.config.DebugOutput != nil {
		dialOpts = append(dialOpts, ftp.DialWithDebugOutput(c.config.DebugOutput))
	}

	conn, err := ftp.Dial(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", addr, err)
	}
	if err := conn.Login(AnonymousUser, ""); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("anonymous login to %s failed: %w", addr, err)
	}
	c.conn = conn
	return c, nil
}

// Addr 返回服务器地址
func (c *Client) Addr() string {
	return c.addr
}

// Close 发送 QUIT 并关闭控制连接
func (c *Client) Close() error {
	return c.conn.Quit()
}

func (c *Client) ChangeDir(path string) error {
	return c.conn.ChangeDir(path)
}

func (c *Client) CurrentDir() (string, error) {
	return c.conn.CurrentDir()
}

func (c *Client) NameList(path string) ([]string, error) {
	return c.conn.NameList(path)
}

// List 使用 LIST 获取带类型的条目, 符号链接无法判断目标类型, 退回按名称判断
func (c *Client) List(path string) ([]mirror.Entry, error) {
	entries, err := c.conn.List(path)
	if err != nil {
		return nil, err
	}
	out := make([]mirror.Entry, 0, len(entries))
	for _, e := range entries {
		var kind mirror.EntryKind
		switch e.Type {
		case ftp.EntryTypeFolder:
			kind = mirror.KindDirectory
		case ftp.EntryTypeFile:
			kind = mirror.KindFile
		default:
			kind = mirror.ClassifyByName(e.Name)
		}
		out = append(out, mirror.Entry{Name: e.Name, Kind: kind})
	}
	return out, nil
}

func (c *Client) SetBinary() error {
	return c.conn.Type(ftp.TransferTypeBinary)
}

func (c *Client) FileSize(path string) (int64, error) {
	return c.conn.FileSize(path)
}

// Retrieve 通过 RETR 下载文件, 每读到一块数据回调一次 onChunk
func (c *Client) Retrieve(path string, chunkSize int, onChunk func(chunk []byte) error) error {
	if chunkSize <= 0 {
		chunkSize = mirror.DefaultChunkSize
	}
	resp, err := c.conn.Retr(path)
	if err != nil {
		return err
	}
	err = streamChunks(resp, chunkSize, onChunk)
	if closeErr := resp.Close(); err == nil {
		err = closeErr
	}
	return err
}

// streamChunks 按块读取直到 EOF, 回调返回错误时立即停止
func streamChunks(r io.Reader, chunkSize int, onChunk func(chunk []byte) error) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if cbErr := onChunk(buf[:n]); cbErr != nil {
				return cbErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
