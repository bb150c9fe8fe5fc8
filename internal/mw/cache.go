package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from memory. Any successful non-GET
// request flushes the whole store, since every write can change every view.
// A GET that overlaps a flush is served but not stored. A non-positive ttl
// turns the middleware into a pass-through.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	var (
		mu  sync.Mutex
		gen uint64
	)
	return func(c *gin.Context) {
		if ttl <= 0 || store == nil {
			c.Next()
			return
		}

		if c.Request.Method != http.MethodGet {
			c.Next()
			if status := c.Writer.Status(); status >= 200 && status < 300 {
				mu.Lock()
				gen++
				store.Flush()
				mu.Unlock()
			}
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		mu.Lock()
		started := gen
		mu.Unlock()

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if blw.Status() >= 200 && blw.Status() < 300 {
			headers := blw.Header().Clone()
			headers.Del(requestIDHeader)
			mu.Lock()
			if gen == started {
				store.Set(key, cachedResponse{
					status:  blw.Status(),
					headers: headers,
					body:    blw.body.Bytes(),
				}, ttl)
			}
			mu.Unlock()
		}
	}
}
