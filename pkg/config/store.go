package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/inhies/go-bytesize"
	"github.com/wentf9/ftpmirror/pkg/models"
	"gopkg.in/yaml.v3"
)

type Store interface {
	Load() (*Configuration, error)
	Save(cfg *Configuration) error
}

type defaultStore struct {
	Path string
}

// Load 读取配置文件, 文件不存在时返回空配置
func (s *defaultStore) Load() (*Configuration, error) {
	config := Configuration{Sites: map[string]models.Site{}}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	if config.Sites == nil {
		config.Sites = map[string]models.Site{}
	}
	return &config, nil
}

func (s *defaultStore) Save(cfg *Configuration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0600)
}

func NewDefaultStore(path string) Store {
	return &defaultStore{
		Path: path,
	}
}

// ParseChunkSize 解析 "8KB" 这样的块大小, 空字符串返回 0 表示使用默认值
func ParseChunkSize(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	b, err := bytesize.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", s, err)
	}
	if b < 1 || b > 64*bytesize.MB {
		return 0, fmt.Errorf("chunk size %q out of range", s)
	}
	return int(b), nil
}

// FormatChunkSize 用于展示
func FormatChunkSize(n int) string {
	return bytesize.New(float64(n)).String()
}
