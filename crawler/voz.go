package crawler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vozlytics/vozlytics/model"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	VozDomain     = "voz.vn"
	VozListingUrl = "https://voz.vn/whats-new"

	// politeness policy: one in-flight request, fixed delay between fetches
	fetchDelay      = 1 * time.Second
	requestTimeout  = 30 * time.Second
	maxFetchRetries = 2

	threadContextKey = "thread_summary"
	retryContextKey  = "fetch_retries"
)

// VozCrawler discovers recently active threads from the what's-new listing
// and captures the latest reply of each, one fetch at a time, newest thread
// first. Each captured reply is tagged and pushed to the sink before the
// next one is processed.
type VozCrawler struct {
	Tagger MessageTagger
	Sink   MessageSink
}

func NewVozCrawler(tagger MessageTagger, sink MessageSink) *VozCrawler {
	return &VozCrawler{Tagger: tagger, Sink: sink}
}

func (v VozCrawler) GetListingQueryPath() string {
	return "div.structItem.structItem--thread"
}

func (v VozCrawler) GetStartUri() string {
	return VozListingUrl
}

// ParseThreadSummary parses one listing container. Containers without a
// latest-reply link (ads, malformed entries) yield nil and are skipped.
// A missing or unparseable thread date is not an error: the summary keeps a
// zero timestamp and simply sorts last.
func (v VozCrawler) ParseThreadSummary(e *colly.HTMLElement) *model.ThreadSummary {
	latestLink := ""
	e.DOM.Find(".structItem-cell--latest a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, exists := s.Attr("href")
		if exists && strings.Contains(href, "/latest") {
			latestLink = href
			return false
		}
		return true
	})
	if latestLink == "" {
		return nil
	}

	summary := &model.ThreadSummary{
		Url:   e.Request.AbsoluteURL(latestLink),
		Title: strings.TrimSpace(e.DOM.Find(".structItem-title a").First().Text()),
	}
	summary.RawDate, _ = e.DOM.Find(".structItem-cell--main time").First().Attr("datetime")
	if summary.RawDate != "" {
		t, err := dateparse.ParseAny(summary.RawDate)
		if err != nil {
			Logger.Log.WithFields(logrus.Fields{"source": "voz"}).
				Warnf("unparseable thread date %q for %s, thread will sort last", summary.RawDate, summary.Url)
		} else {
			summary.PostedAt = t
		}
	}
	return summary
}

// SortThreadSummaries orders threads by their listing timestamp descending so
// the most recently active content is fetched first under the rate-limited
// crawl. Zero timestamps (absent/unparseable dates) sort last; listing order
// is kept for ties.
func SortThreadSummaries(threads []*model.ThreadSummary) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].PostedAt.After(threads[j].PostedAt)
	})
}

// GetMessage runs the extraction steps for one fetched thread page.
func (v VozCrawler) GetMessage(wc *ThreadWorkingContext) error {
	reply := wc.Element.DOM.Find("article.message.message--post").Last()
	if reply.Length() == 0 {
		return errors.New("no reply container on thread page")
	}
	wc.Reply = reply
	wc.Result = &model.Message{
		ThreadId:    ExtractThreadId(wc.Summary.Url),
		ThreadTitle: wc.Summary.Title,
		ThreadDate:  wc.Summary.RawDate,
		ThreadUrl:   wc.Summary.Url,
	}

	updaters := []func(wc *ThreadWorkingContext) error{
		v.UpdateContent,
		v.UpdatePoster,
		v.UpdatePostTime,
		v.UpdateItemId,
	}
	for _, updater := range updaters {
		if err := updater(wc); err != nil {
			return err
		}
	}
	return nil
}

func (v VozCrawler) UpdateContent(wc *ThreadWorkingContext) error {
	sel := wc.Reply.Find(".message-userContent .bbWrapper")
	if sel.Length() == 0 {
		return errors.New("reply body not found")
	}
	wc.Result.MessageContent = CollectTextExcludingQuotes(sel)
	return nil
}

func (v VozCrawler) UpdatePoster(wc *ThreadWorkingContext) error {
	wc.Result.LatestPoster = strings.TrimSpace(
		wc.Reply.Find("h4.message-name [itemprop='name']").First().Text())
	return nil
}

func (v VozCrawler) UpdatePostTime(wc *ThreadWorkingContext) error {
	wc.Result.LatestPostTime, _ = wc.Reply.Find("time.u-dt").First().Attr("datetime")
	return nil
}

// UpdateItemId derives the stable id. An underivable id marks the item
// skipped rather than failing the step: this is the deliberate silent-drop
// policy for items that cannot be keyed.
func (v VozCrawler) UpdateItemId(wc *ThreadWorkingContext) error {
	id, ok := GenerateItemId(wc.Summary.Url, wc.Result.LatestPostTime)
	if !ok {
		wc.Skipped = true
		return nil
	}
	wc.Result.Id = id
	return nil
}

// CollectOnce performs one full crawl pass: fetch the listing, order the
// discovered threads, then fetch each thread's latest reply and run it
// through tagging and storage. Per-thread faults are logged and skipped;
// only a listing fetch failure fails the pass.
func (v VozCrawler) CollectOnce() error {
	threads := []*model.ThreadSummary{}

	listing := v.newCollector()
	listing.OnHTML(v.GetListingQueryPath(), func(e *colly.HTMLElement) {
		if summary := v.ParseThreadSummary(e); summary != nil {
			threads = append(threads, summary)
		}
	})
	if err := listing.Visit(v.GetStartUri()); err != nil {
		return errors.Wrap(err, "fail to fetch listing page")
	}

	SortThreadSummaries(threads)
	Logger.Log.WithFields(logrus.Fields{"source": "voz"}).
		Infof("discovered %d threads", len(threads))

	threadCollector := v.newThreadCollector()
	for _, summary := range threads {
		ctx := colly.NewContext()
		ctx.Put(threadContextKey, summary)
		if err := threadCollector.Request("GET", summary.Url, nil, ctx, nil); err != nil {
			Logger.Log.WithFields(logrus.Fields{"source": "voz"}).
				Errorf("fail to fetch thread %s: %v", summary.Url, err)
		}
	}
	return nil
}

// newCollector builds a collector with the politeness constraints applied:
// single in-flight request, fixed inter-request delay, robots.txt honored.
func (v VozCrawler) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(VozDomain),
	)
	// colly skips robots.txt unless told otherwise
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(requestTimeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: fetchDelay}); err != nil {
		Logger.Log.Errorf("fail to apply crawl limit rule: %v", err)
	}
	c.OnError(func(r *colly.Response, err error) {
		retries, _ := strconv.Atoi(r.Ctx.Get(retryContextKey))
		if retries < maxFetchRetries {
			r.Ctx.Put(retryContextKey, fmt.Sprintf("%d", retries+1))
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}
		// a single broken thread must not stall the crawl
		Logger.Log.WithFields(logrus.Fields{"source": "voz"}).
			Errorf("request %s failed after %d retries: %v", r.Request.URL, retries, err)
	})
	return c
}

func (v VozCrawler) newThreadCollector() *colly.Collector {
	c := v.newCollector()
	c.OnHTML("html", func(e *colly.HTMLElement) {
		summary, _ := e.Request.Ctx.GetAny(threadContextKey).(*model.ThreadSummary)
		if summary == nil {
			return
		}
		wc := &ThreadWorkingContext{Summary: summary, Element: e}
		if err := v.GetMessage(wc); err != nil {
			Logger.Log.WithFields(logrus.Fields{"source": "voz"}).
				Errorf("fail to extract reply from %s: %v", summary.Url, err)
			return
		}
		if wc.Skipped {
			return
		}
		v.Tagger.TagMessage(wc.Result)
		if err := v.Sink.Push(wc.Result); err != nil {
			// already logged by the sink with the item id, keep crawling
			return
		}
	})
	return c
}
