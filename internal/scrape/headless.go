package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// ErrHeadlessDisabled indicates the headless fallback has been disabled
// via configuration.
var ErrHeadlessDisabled = errors.New("headless scraper disabled")

const ldScriptsJS = `Array.from(document.querySelectorAll('script[type="application/ld+json"]')).map(s => s.innerHTML)`

// domFallbackJS pulls recipe fields straight out of the rendered DOM for
// pages that render their recipe client side without ld+json markup.
const domFallbackJS = `({
	name: document.querySelector('h3.recipe-title')?.textContent || '',
	imageUrl: document.querySelector('.recipe-image')?.src || '',
	prepTime: document.querySelector('meta[itemprop="prepTime"]')?.content || '',
	cookTime: document.querySelector('meta[itemprop="cookTime"]')?.content || '',
	totalTime: document.querySelector('meta[itemprop="totalTime"]')?.content || '',
	yield: document.querySelector('.recipe-details a')?.textContent || '',
	author: document.querySelector('span[itemprop="name"]')?.textContent || '',
	ingredients: Array.from(document.querySelectorAll('.ingredients li')).map(el => (el.textContent || '').trim()),
	instructions: Array.from(document.querySelectorAll('div[itemprop="recipeInstructions"] ol li')).map(el => (el.textContent || '').trim()),
})`

// HeadlessScraper renders pages with headless Chrome and extracts the
// recipe from the rendered document. It is the fallback for pages whose
// markup only exists after JavaScript has run.
type HeadlessScraper struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	timeout         time.Duration
	userAgent       string
	logger          *zap.Logger
}

// NewHeadlessScraper starts a shared headless browser. Returns
// ErrHeadlessDisabled when the fallback is switched off.
func NewHeadlessScraper(cfg Config, logger *zap.Logger) (*HeadlessScraper, error) {
	cfg = cfg.withDefaults()
	if !cfg.Headless {
		return nil, ErrHeadlessDisabled
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &HeadlessScraper{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		timeout:         cfg.HeadlessTimeout,
		userAgent:       cfg.UserAgent,
		logger:          logger,
	}, nil
}

// Close tears down the chromedp allocator and browser contexts.
func (h *HeadlessScraper) Close(context.Context) error {
	if h == nil {
		return nil
	}
	h.browserCancel()
	h.allocatorCancel()
	return nil
}

// Scrape renders the page, tries the same ld+json extraction as the
// structured path, and falls back to fixed DOM selectors. Returns
// ErrNoRecipe when neither yields anything.
func (h *HeadlessScraper) Scrape(ctx context.Context, rawURL string) (catalog.RawRecipe, error) {
	if h == nil {
		return catalog.RawRecipe{}, ErrHeadlessDisabled
	}

	tabCtx, cancelTab := chromedp.NewContext(h.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, h.timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var (
		scripts  []string
		fallback domFallback
	)
	tasks := chromedp.Tasks{
		network.Enable(),
		emulation.SetUserAgentOverride(h.userAgent),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(ldScriptsJS, &scripts),
		chromedp.Evaluate(domFallbackJS, &fallback),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return catalog.RawRecipe{}, fmt.Errorf("chromedp run: %w", err)
	}

	if raw, ok := extractRecipe(scripts); ok {
		return raw, nil
	}
	h.logger.Debug("no ld+json after render, using dom selectors", zap.String("url", rawURL))
	if raw, ok := fallback.toRaw(); ok {
		return raw, nil
	}
	return catalog.RawRecipe{}, ErrNoRecipe
}

type domFallback struct {
	Name         string   `json:"name"`
	ImageURL     string   `json:"imageUrl"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	TotalTime    string   `json:"totalTime"`
	Yield        string   `json:"yield"`
	Author       string   `json:"author"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

func (d domFallback) toRaw() (catalog.RawRecipe, bool) {
	if d.Name == "" && len(d.Ingredients) == 0 && len(d.Instructions) == 0 {
		return catalog.RawRecipe{}, false
	}
	raw := catalog.RawRecipe{
		Name:             d.Name,
		PrepTime:         d.PrepTime,
		CookTime:         d.CookTime,
		TotalTime:        d.TotalTime,
		RecipeYield:      catalog.FlexString(d.Yield),
		Author:           catalog.RawAuthor{Name: d.Author},
		RecipeIngredient: d.Ingredients,
	}
	if d.ImageURL != "" {
		raw.Image = catalog.StringList{d.ImageURL}
	}
	if len(d.Instructions) > 0 {
		raw.RecipeInstructions = catalog.RawInstructions{
			Kind: catalog.InstructionsFlat,
			Flat: d.Instructions,
		}
	}
	return raw, true
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
