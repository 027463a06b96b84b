package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"listharvest/internal/browser"

	"github.com/go-rod/rod"
)

// WaitStrategy 等待策略类型
type WaitStrategy string

const (
	WaitStrategyLoad    WaitStrategy = "load"    // 等待页面完全加载
	WaitStrategyElement WaitStrategy = "element" // 等待特定元素出现
	WaitStrategyTime    WaitStrategy = "time"    // 等待固定时间
)

// ParseWaitStrategy 解析命令行或配置中的等待策略
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch ws := WaitStrategy(s); ws {
	case WaitStrategyLoad, WaitStrategyElement, WaitStrategyTime:
		return ws, nil
	case "":
		return WaitStrategyLoad, nil
	default:
		return "", fmt.Errorf("invalid wait strategy: %s", s)
	}
}

// FetchResult 抓取结果
type FetchResult struct {
	Page     *rod.Page     // 页面对象，由调用方关闭
	Title    string        // 页面标题
	URL      string        // 最终URL
	LoadTime time.Duration // 加载时间
}

// Fetcher 页面抓取器
type Fetcher struct {
	browser *browser.Browser
}

// NewFetcher 创建新的 Fetcher 实例
func NewFetcher(browser *browser.Browser) *Fetcher {
	return &Fetcher{
		browser: browser,
	}
}

// Fetch 打开页面并按等待策略等待
// timeout 只约束导航和等待，不影响返回页面上的后续操作
func (f *Fetcher) Fetch(ctx context.Context, url string, waitStrategy WaitStrategy, waitTarget string, timeout time.Duration) (*FetchResult, error) {
	startTime := time.Now()

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	bounded := page.Context(ctx).Timeout(timeout)

	if err := bounded.Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	if err := applyWaitStrategy(ctx, bounded, waitStrategy, waitTarget); err != nil {
		page.Close()
		return nil, fmt.Errorf("wait strategy failed: %w", err)
	}

	info, err := page.Context(ctx).Info()
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to get page info: %w", err)
	}

	return &FetchResult{
		Page:     page,
		Title:    info.Title,
		URL:      info.URL,
		LoadTime: time.Since(startTime),
	}, nil
}

// applyWaitStrategy 应用等待策略
func applyWaitStrategy(ctx context.Context, page *rod.Page, strategy WaitStrategy, target string) error {
	switch strategy {
	case WaitStrategyElement:
		// 等待特定元素出现
		if target == "" {
			return fmt.Errorf("wait target is required for element strategy")
		}
		if _, err := page.Element(target); err != nil {
			return fmt.Errorf("failed to wait for element '%s': %w", target, err)
		}

	case WaitStrategyTime:
		// 等待固定时间
		d, err := waitDuration(target)
		if err != nil {
			return err
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}

	default:
		// 等待页面完全加载
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
	}

	return nil
}

// waitDuration 将毫秒数转换为时长
func waitDuration(target string) (time.Duration, error) {
	if target == "" {
		return 0, fmt.Errorf("wait target is required for time strategy")
	}
	ms, err := strconv.Atoi(target)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid wait time '%s': expected milliseconds", target)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
