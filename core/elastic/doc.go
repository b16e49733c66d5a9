// Package elastic provides an abstraction layer for the Elasticsearch
// service the comparison runs against.
//
// It wraps the official go-elasticsearch client to expose only the handful
// of operations the tool needs. The cursor (scroll) protocol, connection
// pooling and retries stay the client library's responsibility.
//
// # Client Interface
//
// The Client interface abstracts the underlying service, making it easy
// to mock network interactions for unit testing (see core/elastic/mocks).
//
// # Operations
//
//   - Ping: verifies the service is reachable.
//   - IndexExists: checks an index before scanning it.
//   - Count: returns document totals (used for progress display).
//   - OpenScroll / ContinueScroll / ClearScroll: cursor-based full scans.
//   - MultiGet: batched lookup of documents by id.
//
// # Scroller
//
// Scroller turns the open/continue/clear triple into a lazy sequence of
// pages, holding at most one page in memory:
//
//	sc := elastic.NewScroller(client, "products-v2", 1000, 2*time.Minute)
//	defer sc.Close(ctx)
//	for {
//	    hits, err := sc.Next(ctx)
//	    if err != nil || hits == nil {
//	        break
//	    }
//	    // process hits
//	}
package elastic
