package calendar

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache keeps rendered month views for a short time.
type Cache struct {
	c *cache.Cache
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: cache.New(ttl, 2*ttl)}
}

// Key identifies a view by month, viewer capability and selected date.
func Key(month string, canBook bool, selected string) string {
	return fmt.Sprintf("%s|%t|%s", month, canBook, selected)
}

func (c *Cache) Get(key string) (MonthView, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return MonthView{}, false
	}
	view, ok := v.(MonthView)
	return view, ok
}

func (c *Cache) Set(key string, view MonthView) {
	c.c.SetDefault(key, view)
}

// Invalidate drops every cached view.
func (c *Cache) Invalidate() {
	c.c.Flush()
}
