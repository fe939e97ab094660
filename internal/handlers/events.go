package handlers

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
)

/*
GET /admin/api/events
- server-sent events stream of productAdded/productUpdated/productDeleted
- no replay: the stream starts with whatever happens after the client attaches
*/
func StreamCatalogEvents(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/events"

		events := make(chan catalog.Event, 16)
		unsubscribe := store.Events().Subscribe(func(evt catalog.Event) {
			select {
			case events <- evt:
			default:
				// slow consumer, drop rather than block the mutating call
			}
		})
		defer unsubscribe()

		log.Printf("[%s] listener attached", route)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case evt := <-events:
				c.SSEvent(string(evt.Type), evt.Product)
				return true
			case <-c.Request.Context().Done():
				log.Printf("[%s] listener detached", route)
				return false
			}
		})
	}
}
