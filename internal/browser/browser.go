package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config 浏览器启动参数
type Config struct {
	ProxyURL  string // 代理URL，为空时直连
	Headless  bool
	Stealth   bool   // 新页面注入 stealth 脚本，隐藏自动化特征
	UserAgent string // 为空时使用浏览器默认 UA
}

// Browser 封装 rod.Browser 实例
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config
}

// New 启动并连接浏览器
func New(cfg Config) (*Browser, error) {
	l := newLauncher(cfg)

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  browser,
		launcher: l,
		cfg:      cfg,
	}, nil
}

func newLauncher(cfg Config) *launcher.Launcher {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	return l
}

// ProxyURL 获取当前使用的代理URL
func (b *Browser) ProxyURL() string {
	return b.cfg.ProxyURL
}

// NewPage 创建新的浏览器页面
func (b *Browser) NewPage() (*rod.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if b.cfg.Stealth {
		page, err = stealth.Page(b.browser)
	} else {
		page, err = b.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, err
	}

	if b.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.cfg.UserAgent}); err != nil {
			page.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}
	return page, nil
}

// Close 关闭浏览器并清理资源
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
