package config

import (
	"fmt"
	"sort"

	"github.com/wentf9/ftpmirror/pkg/models"
)

type Provider struct {
	cfg         *Configuration
	lookupIndex map[string]string
}

func NewProvider(cfg *Configuration) ConfigProvider {
	if cfg.Sites == nil {
		cfg.Sites = map[string]models.Site{}
	}
	provider := &Provider{
		cfg:         cfg,
		lookupIndex: map[string]string{},
	}
	provider.init()
	return provider
}

// add 将站点名称和地址加入索引
func (cp *Provider) add(name string) {
	site, ok := cp.cfg.Sites[name]
	if !ok {
		return
	}
	cp.lookupIndex[name] = name
	if site.Address == "" {
		return
	}
	// 名称优先, 地址不覆盖已有的名称
	for _, key := range []string{site.Address, fmt.Sprintf("%s:%d", site.Address, site.Port)} {
		if _, exists := cp.lookupIndex[key]; !exists {
			cp.lookupIndex[key] = name
		}
	}
}

// Find 匹配用户输入 (站点名 / 地址 / 地址:端口), 返回站点名
func (cp *Provider) Find(input string) string {
	if name, ok := cp.lookupIndex[input]; ok {
		return name
	}
	return ""
}

func (cp *Provider) GetSite(name string) (models.Site, bool) {
	site, ok := cp.cfg.Sites[name]
	return site, ok
}

func (cp *Provider) AddSite(name string, site models.Site) {
	cp.cfg.Sites[name] = site
	cp.rebuild()
}

func (cp *Provider) DeleteSite(name string) bool {
	if _, ok := cp.cfg.Sites[name]; !ok {
		return false
	}
	delete(cp.cfg.Sites, name)
	cp.rebuild()
	return true
}

// ListSites 返回排序后的站点名
func (cp *Provider) ListSites() []string {
	names := make([]string, 0, len(cp.cfg.Sites))
	for name := range cp.cfg.Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cp *Provider) rebuild() {
	clear(cp.lookupIndex)
	cp.init()
}

func (cp *Provider) init() {
	// 先登记全部名称, 再登记地址, 保证名称优先
	names := cp.ListSites()
	for _, name := range names {
		cp.lookupIndex[name] = name
	}
	for _, name := range names {
		cp.add(name)
	}
}
