package crawler

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"github.com/vozlytics/vozlytics/model"
)

// MessageSink receives every fully tagged message produced by a crawl pass.
// A Push failure only fails that item, the crawl moves on to the next one.
type MessageSink interface {
	Push(msg *model.Message) error
}

// MessageTagger fills in the one-hot sentiment counts and the analysis
// timestamp on an extracted message. Implementations must never fail; a
// classifier fault degrades to the neutral vector.
type MessageTagger interface {
	TagMessage(msg *model.Message)
}

// This is the context we keep to be used for all the extraction steps of one
// thread page. Initialized with the discovery summary and the fetched page,
// each step puts additional information into this object to pass down to the
// next step.
type ThreadWorkingContext struct {
	Summary *model.ThreadSummary
	Element *colly.HTMLElement

	// the last reply container on the thread page
	Reply *goquery.Selection
	// final extracted message for this thread
	Result *model.Message
	// set when the item cannot get a stable id and must be dropped silently
	Skipped bool
}
