package http

import (
	"time"

	"github.com/gin-gonic/gin"
)

// SummaryObserver records how long a summary took.
type SummaryObserver interface {
	ObserveSummary(d time.Duration)
}

type SummaryController struct {
	summarizer Summarizer
	observer   SummaryObserver
}

func NewSummaryController(summarizer Summarizer, observer SummaryObserver) *SummaryController {
	return &SummaryController{summarizer: summarizer, observer: observer}
}

// Summary returns the five catalog counts
// GET /catalog
func (sc *SummaryController) Summary(c *gin.Context) {
	start := time.Now()
	summary, err := sc.summarizer.Summarize(c.Request.Context())
	if sc.observer != nil {
		sc.observer.ObserveSummary(time.Since(start))
	}
	respondRead(c, summary, err, "catalog summary")
}
