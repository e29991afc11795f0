package capture

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/sasangkyoo/slap/analysis"
	"github.com/sasangkyoo/slap/models"
)

// resourceTypes maps CDP resource types to the log entry types we keep.
// Asset traffic (images, fonts, stylesheets, scripts) is noise for loading
// classification and is dropped at the recorder.
var resourceTypes = map[proto.NetworkResourceType]string{
	proto.NetworkResourceTypeXHR:         models.ResourceXHR,
	proto.NetworkResourceTypeFetch:       models.ResourceFetch,
	proto.NetworkResourceTypeWebSocket:   models.ResourceWebSocket,
	proto.NetworkResourceTypeEventSource: models.ResourceEventSource,
	proto.NetworkResourceTypeDocument:    models.ResourceDocument,
}

// pendingRequest holds request-side data until the matching response event
// arrives.
type pendingRequest struct {
	method   string
	url      string
	postData string
}

// networkRecorder observes a page's CDP network events and accumulates an
// ordered NetworkLogEntry log. It records without intercepting, so page
// behavior is unchanged.
//
// Events keep flowing while the page is navigated and scrolled; call stop
// before reading entries.
type networkRecorder struct {
	mu      sync.Mutex
	pending map[proto.NetworkRequestID]*pendingRequest
	entries []models.NetworkLogEntry
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// recordNetwork starts recording the page's data traffic. The returned
// recorder must be stopped before its entries are read.
func recordNetwork(ctx context.Context, page *rod.Page) *networkRecorder {
	recCtx, cancel := context.WithCancel(ctx)
	rec := &networkRecorder{
		pending: make(map[proto.NetworkRequestID]*pendingRequest),
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}

	recPage := page.Context(recCtx)
	wait := recPage.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			rec.onRequest(recPage, e)
		},
		func(e *proto.NetworkResponseReceived) {
			rec.onResponse(e)
		},
	)

	go func() {
		defer close(rec.doneCh)
		wait()
	}()

	return rec
}

func (r *networkRecorder) onRequest(page *rod.Page, e *proto.NetworkRequestWillBeSent) {
	req := &pendingRequest{
		method: e.Request.Method,
		url:    e.Request.URL,
	}

	// POST body preview, best-effort. The body may be unavailable once the
	// request has completed; a miss only weakens GraphQL detection.
	if e.Request.HasPostData {
		if body, err := (proto.NetworkGetRequestPostData{
			RequestID: e.RequestID,
		}).Call(page); err == nil {
			req.postData = body.PostData
		}
	}

	r.mu.Lock()
	r.pending[e.RequestID] = req
	r.mu.Unlock()
}

func (r *networkRecorder) onResponse(e *proto.NetworkResponseReceived) {
	entryType, keep := resourceTypes[e.Type]
	if !keep {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req := r.pending[e.RequestID]
	delete(r.pending, e.RequestID)

	method := "GET"
	rawURL := e.Response.URL
	postData := ""
	if req != nil {
		method = req.method
		rawURL = req.url
		postData = req.postData
	}

	contentType := e.Response.MIMEType

	r.entries = append(r.entries, models.NetworkLogEntry{
		Timestamp:   time.Now(),
		Method:      method,
		URL:         rawURL,
		Status:      e.Response.Status,
		Type:        entryType,
		ContentType: contentType,
		IsGraphQL:   analysis.IsGraphQL(method, rawURL, contentType, postData),
	})
}

// stop ends event collection and waits for the listener goroutine to exit.
func (r *networkRecorder) stop() {
	r.cancel()
	<-r.doneCh
}

// log returns the recorded entries in arrival order. Call after stop.
func (r *networkRecorder) log() []models.NetworkLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		return []models.NetworkLogEntry{}
	}
	return r.entries
}
